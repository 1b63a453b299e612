package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/clustergraph/internal/force"
	"github.com/olivierh59500/clustergraph/internal/graph"
	"github.com/olivierh59500/clustergraph/internal/report"
)

var (
	inspectTop      int
	inspectMaxTicks int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Build the graph, let it settle, and print a summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, clusters, err := loadInput(cmd, args)
		if err != nil {
			return err
		}
		g, err := graph.Build(clusters, cfg.GraphOptions())
		if err != nil {
			return err
		}
		e := force.New(g, cfg.ForceParams(float64(cfg.View.Width), float64(cfg.View.Height)),
			force.WithSeed(cfg.Simulation.Seed), force.WithLogger(slog.Default()))
		defer e.Stop()

		n, err := e.RunUntilSettled(cmd.Context(), inspectMaxTicks)
		if err != nil {
			return err
		}
		slog.Debug("simulation finished", "ticks", n, "settled", e.Settled())
		return report.Write(cmd.OutOrStdout(), report.Summarize(g, e, inspectTop))
	},
}

func init() {
	inspectCmd.Flags().IntVar(&inspectTop, "top", 10, "number of strongest edges to list")
	inspectCmd.Flags().IntVar(&inspectMaxTicks, "max-ticks", 5000, "tick limit (0 for none)")
	rootCmd.AddCommand(inspectCmd)
}
