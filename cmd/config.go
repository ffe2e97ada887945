package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/xvierd/pomo-cli/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Inspect and create the configuration file",
	Annotations: map[string]string{skipServicesAnnotation: "true"},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML (defaults when no file exists)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}

		// Never create the file from a read-only command.
		cfg := config.DefaultConfig()
		if _, statErr := os.Stat(path); statErr == nil {
			if cfg, err = config.Load(path); err != nil {
				return err
			}
		} else if !errors.Is(statErr, fs.ErrNotExist) {
			return fmt.Errorf("failed to check config: %w", statErr)
		}

		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}

		_, err = os.Stat(path)
		switch {
		case err == nil && !configForce:
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("failed to check config: %w", err)
		}

		if err := config.Save(path, config.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// resolveConfigPath returns --config or the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
