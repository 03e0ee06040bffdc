package cmd

import (
	"github.com/misterclayt0n/stretchcoach/internal/pose/bridge"
	"github.com/spf13/cobra"
)

var (
	bridgeURL string
	modelURL  string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a live stretching session through the classifier bridge",
	Long: `Connects to the classifier bridge, loads the pose model and camera, and
counts reps for each stretch of the routine. Press Enter to start or restart
the routine, q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if bridgeURL == "" {
			bridgeURL = cfg.Bridge.URL
		}
		if modelURL == "" {
			modelURL = cfg.Model.URL
		}

		client := bridge.NewClient(bridgeURL, logger)
		defer client.Close()

		return runSession(cmd.Context(), sessionParams{
			library:  client,
			modelURL: modelURL,
			in:       cmd.InOrStdin(),
			out:      cmd.OutOrStdout(),
		})
	},
}

func init() {
	// Registers the command as a subcommand of rootCmd.
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&bridgeURL, "bridge", "b", "", "Classifier bridge WebSocket URL")
	startCmd.Flags().StringVarP(&modelURL, "model", "m", "", "Model base URL (model.json, metadata.json)")
}
