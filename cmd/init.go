package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/misterclayt0n/stretchcoach/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.GetConfigPath()
			if err != nil {
				return fmt.Errorf("Failed to resolve config path: %w", err)
			}
			path = p
		}

		if err := config.WriteDefault(path, initForce); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("Config already exists at %s (use --force to overwrite)", path)
			}
			return fmt.Errorf("Failed to write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Config written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initSetupCmd)
	initSetupCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}
