package cmd

import (
	"github.com/misterclayt0n/stretchcoach/internal/config"
	"github.com/misterclayt0n/stretchcoach/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "stretchcoach",
	Short:         "AI stretching coach that counts reps from a pose classifier",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger = logging.New(logging.Config{Level: level, Output: cmd.ErrOrStderr()})
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/stretchcoach/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging and live prediction display")
}
