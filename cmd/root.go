package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/clustergraph/internal/config"
	"github.com/olivierh59500/clustergraph/internal/graph"
	"github.com/olivierh59500/clustergraph/internal/source"
)

var version = "0.3.0"

var (
	configPath string
	verbose    bool
	threshold  float64
	demoCount  int
	demoDim    int
)

var rootCmd = &cobra.Command{
	Use:     "clustergraph",
	Short:   "Interactive force-directed graph of topic clusters",
	Long:    "clustergraph lays out topic clusters as a force-directed graph, linking\nclusters whose centroid vectors are similar.",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
	SilenceUsage: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.ConfigPath(), "config file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().Float64VarP(&threshold, "threshold", "t", 0, "similarity threshold (overrides config)")
	rootCmd.PersistentFlags().IntVar(&demoCount, "demo", 0, "generate N synthetic clusters instead of reading a file")
	rootCmd.PersistentFlags().IntVar(&demoDim, "demo-dim", 16, "centroid dimensions for --demo")
}

// loadInput resolves the configuration and the cluster records for a
// command invoked with an optional file argument.
func loadInput(cmd *cobra.Command, args []string) (*config.Config, []graph.Cluster, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Graph.Threshold = threshold
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("--threshold: %w", err)
		}
	}

	switch {
	case demoCount > 0:
		return cfg, source.Demo(demoCount, demoDim, cfg.Simulation.Seed), nil
	case len(args) == 1:
		clusters, err := source.Load(args[0])
		if err != nil {
			return nil, nil, err
		}
		return cfg, clusters, nil
	default:
		return nil, nil, errors.New("need a cluster file or --demo N")
	}
}
