// Package config provides configuration management for pomo.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config holds all configuration for the pomo application.
// Countdown lengths are fixed per mode and deliberately absent.
type Config struct {
	Notifications NotificationConfig `mapstructure:"notifications" toml:"notifications"`
	Log           LogConfig          `mapstructure:"log" toml:"log"`
	UI            UIConfig           `mapstructure:"ui" toml:"ui"`
	Theme         ThemeConfig        `mapstructure:"theme" toml:"theme"`
}

// NotificationConfig holds the completion alert settings.
type NotificationConfig struct {
	Enabled        bool    `mapstructure:"enabled" toml:"enabled"`
	Sound          bool    `mapstructure:"sound" toml:"sound"`
	BeepFrequency  float64 `mapstructure:"beep_frequency" toml:"beep_frequency"`
	BeepDurationMS int     `mapstructure:"beep_duration_ms" toml:"beep_duration_ms"`
}

// LogConfig holds logging settings. File "-" disables logging.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Inline      bool   `mapstructure:"inline" toml:"inline"`
	TaskFromGit bool   `mapstructure:"task_from_git" toml:"task_from_git"`
	DefaultMode string `mapstructure:"default_mode" toml:"default_mode"`
}

// ThemeConfig holds theme customization settings (colors and icons).
// Empty fields fall back to DefaultThemeConfig.
type ThemeConfig struct {
	ColorWork           string `mapstructure:"color_work" toml:"color_work"`
	ColorBreak          string `mapstructure:"color_break" toml:"color_break"`
	ColorPaused         string `mapstructure:"color_paused" toml:"color_paused"`
	ColorTitle          string `mapstructure:"color_title" toml:"color_title"`
	ColorTask           string `mapstructure:"color_task" toml:"color_task"`
	ColorHelp           string `mapstructure:"color_help" toml:"color_help"`
	WorkGradientStart   string `mapstructure:"work_gradient_start" toml:"work_gradient_start"`
	WorkGradientEnd     string `mapstructure:"work_gradient_end" toml:"work_gradient_end"`
	BreakGradientStart  string `mapstructure:"break_gradient_start" toml:"break_gradient_start"`
	BreakGradientEnd    string `mapstructure:"break_gradient_end" toml:"break_gradient_end"`
	PausedGradientStart string `mapstructure:"paused_gradient_start" toml:"paused_gradient_start"`
	PausedGradientEnd   string `mapstructure:"paused_gradient_end" toml:"paused_gradient_end"`
	IconApp             string `mapstructure:"icon_app" toml:"icon_app"`
	IconTask            string `mapstructure:"icon_task" toml:"icon_task"`
	IconPaused          string `mapstructure:"icon_paused" toml:"icon_paused"`
	IconDone            string `mapstructure:"icon_done" toml:"icon_done"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:           "#E8553F",
		ColorBreak:          "#4ECDC4",
		ColorPaused:         "#6B7280",
		ColorTitle:          "#6B7280",
		ColorTask:           "#A0AEC0",
		ColorHelp:           "#95A5A6",
		WorkGradientStart:   "#E8553F",
		WorkGradientEnd:     "#F4A261",
		BreakGradientStart:  "#4ECDC4",
		BreakGradientEnd:    "#2ECC71",
		PausedGradientStart: "#6B7280",
		PausedGradientEnd:   "#4B5563",
		IconApp:             "🍅",
		IconTask:            "📋",
		IconPaused:          "⏸",
		IconDone:            "🔔",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Notifications: NotificationConfig{
			Enabled:        true,
			Sound:          true,
			BeepFrequency:  587,
			BeepDurationMS: 500,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.pomo/pomo.log",
		},
		UI: UIConfig{
			DefaultMode: "work",
		},
		Theme: DefaultThemeConfig(),
	}
}

// GetConfigPath returns the path to the default config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pomo", "config.toml"), nil
}

// Load reads the config file at path (the default path when empty),
// creating it from DefaultConfig if it does not exist.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := Save(path, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	logFile, err := expandHome(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	cfg.Log.File = logFile

	return &cfg, nil
}

// Save writes cfg as TOML to path, creating the directory as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal encodes cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// expandHome resolves a leading "~/" against the home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// setDefaults registers defaults so that keys missing from the file keep
// their default values.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("notifications.beep_frequency", d.Notifications.BeepFrequency)
	v.SetDefault("notifications.beep_duration_ms", d.Notifications.BeepDurationMS)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("ui.inline", d.UI.Inline)
	v.SetDefault("ui.task_from_git", d.UI.TaskFromGit)
	v.SetDefault("ui.default_mode", d.UI.DefaultMode)

	v.SetDefault("theme.color_work", d.Theme.ColorWork)
	v.SetDefault("theme.color_break", d.Theme.ColorBreak)
	v.SetDefault("theme.color_paused", d.Theme.ColorPaused)
	v.SetDefault("theme.color_title", d.Theme.ColorTitle)
	v.SetDefault("theme.color_task", d.Theme.ColorTask)
	v.SetDefault("theme.color_help", d.Theme.ColorHelp)
	v.SetDefault("theme.work_gradient_start", d.Theme.WorkGradientStart)
	v.SetDefault("theme.work_gradient_end", d.Theme.WorkGradientEnd)
	v.SetDefault("theme.break_gradient_start", d.Theme.BreakGradientStart)
	v.SetDefault("theme.break_gradient_end", d.Theme.BreakGradientEnd)
	v.SetDefault("theme.paused_gradient_start", d.Theme.PausedGradientStart)
	v.SetDefault("theme.paused_gradient_end", d.Theme.PausedGradientEnd)
	v.SetDefault("theme.icon_app", d.Theme.IconApp)
	v.SetDefault("theme.icon_task", d.Theme.IconTask)
	v.SetDefault("theme.icon_paused", d.Theme.IconPaused)
	v.SetDefault("theme.icon_done", d.Theme.IconDone)
}
