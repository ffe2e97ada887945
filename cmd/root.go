// Package cmd provides the CLI commands for the pomo application.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xvierd/pomo-cli/internal/adapters/tui"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath string
	logLevel   string
	inlineMode bool
	noSound    bool

	// Timer flags
	modeFlag string
	taskFlag string
	fromGit  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "pomo - A Pomodoro timer for the terminal",
	Long: `pomo is a terminal Pomodoro timer with three modes: Work (25m),
Short Break (5m) and Long Break (15m). A short alert plays when a
countdown reaches zero.

Run "pomo" with no arguments to open the timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipServices(cmd) {
			return nil
		}
		return initializeServices()
	},
	RunE: runTimer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.pomo/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noSound, "no-sound", false, "Disable the completion beep")

	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Initial mode: work, short_break, long_break")
	rootCmd.Flags().StringVarP(&taskFlag, "task", "t", "", "Commit a task note before the timer opens")
	rootCmd.Flags().BoolVar(&fromGit, "from-git", false, "Suggest a task note from the current git branch")
	rootCmd.Flags().BoolVarP(&inlineMode, "inline", "i", false, "Compact inline timer (no fullscreen)")

	// Finalizers also run when RunE fails, unlike PersistentPostRunE.
	cobra.OnFinalize(func() {
		if err := cleanupServices(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	})

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("pomo\nVersion: {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(configCmd)
}

// skipServices reports whether cmd or one of its parents opted out of
// service initialization.
func skipServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipServicesAnnotation] == "true" {
			return true
		}
	}
	return false
}

// runTimer opens the interactive timer.
func runTimer(cmd *cobra.Command, args []string) error {
	ctx, stop := setupSignalHandler(cmd.Context())
	defer stop()

	if err := applyStartupOptions(ctx); err != nil {
		return err
	}

	runner := tui.NewRunner(app.timer, tui.Options{
		Theme:  &app.config.Theme,
		Inline: inlineMode || app.config.UI.Inline,
	}, app.logger)

	if err := runner.Run(ctx); err != nil {
		return err
	}

	snap := app.timer.Snapshot()
	app.logger.Info("timer closed", "mode", snap.Mode, "remaining", snap.Remaining())
	return nil
}
