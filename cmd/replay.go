package cmd

import (
	"fmt"

	"github.com/misterclayt0n/stretchcoach/internal/pose/script"
	"github.com/spf13/cobra"
)

var (
	replayAutoStart   bool
	replayInteractive bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [script.toml]",
	Short: "Run the routine against recorded prediction frames",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := script.Load(args[0])
		if err != nil {
			return fmt.Errorf("Failed to load script: %w", err)
		}

		params := sessionParams{
			library:      lib,
			modelURL:     cfg.Model.URL,
			out:          cmd.OutOrStdout(),
			autoStart:    replayAutoStart,
			exitOnFinish: !replayInteractive,
		}
		if replayInteractive || !replayAutoStart {
			params.in = cmd.InOrStdin()
		}
		return runSession(cmd.Context(), params)
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&replayAutoStart, "auto-start", "a", true, "Start the routine as soon as the model is ready")
	replayCmd.Flags().BoolVarP(&replayInteractive, "interactive", "i", false, "Keep running after the routine finishes (Enter restarts)")
}
