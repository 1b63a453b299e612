package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/clustergraph/internal/app"
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Open the interactive graph window",
	Long: `Open the interactive graph window.

Drag a node to move it, drag empty space to pan, scroll or pinch to zoom.
R resets the view, Space pauses the simulation, Up/Down change the
similarity threshold.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, clusters, err := loadInput(cmd, args)
		if err != nil {
			return err
		}
		game, err := app.NewGame(cfg, clusters, slog.Default())
		if err != nil {
			return err
		}
		return app.Run(game)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
