package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/pomo-cli/internal/adapters/notification"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/logging"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/services"
	"github.com/xvierd/pomo-cli/internal/testutil"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// resetFlags restores package flag state after a test, since cobra keeps
// parsed values between executions.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configPath, logLevel = "", ""
		inlineMode, noSound = false, false
		modeFlag, taskFlag, fromGit = "", "", false
		modesJSON, modesYAML = false, false
		configForce = false
		app = appDeps{}
	})
}

// writeQuietConfig writes a config that logs nowhere and returns its path.
func writeQuietConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	cfg.Log.File = logging.Disabled
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("config.Save() error = %v", err)
	}
	return path
}

type fakeGit struct {
	info *ports.GitInfo
	err  error
}

func (f fakeGit) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	return f.info, f.err
}

// useTestApp installs a controller on a frozen clock in place of the real stack.
func useTestApp(t *testing.T, detector ports.GitDetector) *services.Controller {
	t.Helper()
	resetFlags(t)
	ctrl := services.NewController(testutil.NewFakeClock(time.Now()))
	t.Cleanup(ctrl.Close)
	app = appDeps{
		config: config.DefaultConfig(),
		logger: logging.NewWithWriter(new(bytes.Buffer), logging.ParseLevel("debug")),
		timer:  ctrl,
		git:    detector,
	}
	return ctrl
}

func TestRootCmd_Use(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	if rootCmd.Use != "pomo" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "pomo")
	}
}

func TestRootCmd_Help(t *testing.T) {
	resetFlags(t)

	stdout, _, err := executeCmd(rootCmd, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	if !strings.Contains(stdout, "pomo") {
		t.Error("help output should contain 'pomo'")
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"config", "log-level", "no-sound"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag should be registered", name)
		}
	}

	shorthands := map[string]string{"mode": "m", "task": "t", "inline": "i", "from-git": ""}
	for name, short := range shorthands {
		f := rootCmd.Flags().Lookup(name)
		if f == nil {
			t.Errorf("--%s flag should be registered", name)
			continue
		}
		if f.Shorthand != short {
			t.Errorf("--%s shorthand = %q, want %q", name, f.Shorthand, short)
		}
	}
}

func TestModesCmd_Table(t *testing.T) {
	resetFlags(t)

	stdout, _, err := executeCmd(rootCmd, "modes")
	if err != nil {
		t.Fatalf("modes failed: %v", err)
	}

	for _, want := range []string{"work", "Work", "25:00", "short_break", "05:00", "long_break", "15:00"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("modes output missing %q:\n%s", want, stdout)
		}
	}
}

func TestModesCmd_JSON(t *testing.T) {
	resetFlags(t)

	stdout, _, err := executeCmd(rootCmd, "modes", "--json")
	if err != nil {
		t.Fatalf("modes --json failed: %v", err)
	}

	var infos []modeInfo
	if err := json.Unmarshal([]byte(stdout), &infos); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(infos) != 3 {
		t.Fatalf("got %d modes, want 3", len(infos))
	}
	want := []int{1500, 300, 900}
	for i, info := range infos {
		if info.Seconds != want[i] {
			t.Errorf("%s seconds = %d, want %d", info.Name, info.Seconds, want[i])
		}
	}
}

func TestModesCmd_YAML(t *testing.T) {
	resetFlags(t)

	stdout, _, err := executeCmd(rootCmd, "modes", "--yaml")
	if err != nil {
		t.Fatalf("modes --yaml failed: %v", err)
	}

	var infos []modeInfo
	if err := yaml.Unmarshal([]byte(stdout), &infos); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, stdout)
	}
	if len(infos) != 3 || infos[2].Name != "long_break" || infos[2].Clock != "15:00" {
		t.Errorf("unexpected modes: %+v", infos)
	}
}

func TestModesCmd_ExclusiveFormats(t *testing.T) {
	resetFlags(t)

	if _, _, err := executeCmd(rootCmd, "modes", "--json", "--yaml"); err == nil {
		t.Error("expected error for --json with --yaml")
	}
}

func TestConfigCmd_Path(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "custom.toml")

	stdout, _, err := executeCmd(rootCmd, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if strings.TrimSpace(stdout) != path {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(stdout), path)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("config path should not create the file")
	}
}

func TestConfigCmd_Init(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "pomo", "config.toml")

	if _, _, err := executeCmd(rootCmd, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, _, err := executeCmd(rootCmd, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}

	if _, _, err := executeCmd(rootCmd, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestConfigCmd_ShowWithoutFile(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "missing.toml")

	stdout, _, err := executeCmd(rootCmd, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(stdout, "[notifications]") {
		t.Errorf("config show should print defaults:\n%s", stdout)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("config show must not create the file")
	}
}

func TestConfigCmd_Show(t *testing.T) {
	resetFlags(t)
	path := writeQuietConfig(t)

	stdout, _, err := executeCmd(rootCmd, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"[notifications]", "[log]", "[ui]", "[theme]"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config show missing %q", want)
		}
	}
}

func TestInitializeServices(t *testing.T) {
	resetFlags(t)
	configPath = writeQuietConfig(t)
	noSound = true

	if err := initializeServices(); err != nil {
		t.Fatalf("initializeServices() error = %v", err)
	}
	if app.timer == nil || app.notifier == nil || app.git == nil || app.logger == nil {
		t.Fatalf("services not initialized: %+v", app)
	}
	if app.config.Notifications.Sound {
		t.Error("--no-sound should disable the beep")
	}
	if got := app.timer.Snapshot().Clock(); got != "25:00" {
		t.Errorf("initial clock = %s, want 25:00", got)
	}

	if err := cleanupServices(); err != nil {
		t.Errorf("cleanupServices() error = %v", err)
	}
	if app.timer != nil {
		t.Error("cleanupServices() should reset dependencies")
	}
}

func TestControllerOptions(t *testing.T) {
	logger := logging.NewWithWriter(new(bytes.Buffer), logging.ParseLevel("info"))

	tests := []struct {
		name string
		cfg  config.NotificationConfig
		want int
	}{
		{"all outputs off", config.NotificationConfig{}, 1},
		{"sound only", config.NotificationConfig{Sound: true}, 2},
		{"desktop only", config.NotificationConfig{Enabled: true}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := controllerOptions(logger, notification.New(tt.cfg))
			if len(opts) != tt.want {
				t.Errorf("got %d options, want %d", len(opts), tt.want)
			}
		})
	}
}

func TestRootCmd_CleansUpOnError(t *testing.T) {
	resetFlags(t)
	path := writeQuietConfig(t)

	_, _, err := executeCmd(rootCmd, "--config", path, "--mode", "nap")
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if app.timer != nil || app.logCloser != nil {
		t.Error("services should be released when the command fails")
	}
}

func TestSuggestFromGit_LogsContext(t *testing.T) {
	useTestApp(t, fakeGit{info: &ports.GitInfo{
		Branch:     "feature/add-login-form",
		Commit:     "0123456789abcdef0123456789abcdef01234567",
		Repository: "xvierd/pomo-cli",
	}})
	var logs bytes.Buffer
	app.logger = logging.NewWithWriter(&logs, logging.ParseLevel("debug"))

	got := suggestFromGit(context.Background())

	if got != "add login form" {
		t.Errorf("suggestFromGit() = %q, want %q", got, "add login form")
	}
	for _, want := range []string{"repository=xvierd/pomo-cli", "commit=0123456 ", "branch=feature/add-login-form"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log missing %q:\n%s", want, logs.String())
		}
	}
}

func TestInitializeServices_InvalidConfig(t *testing.T) {
	resetFlags(t)
	configPath = filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[ui\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := initializeServices(); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestApplyStartupOptions(t *testing.T) {
	tests := []struct {
		name          string
		mode          string
		defaultMode   string
		task          string
		fromGit       bool
		git           fakeGit
		wantMode      domain.Mode
		wantCommitted string
		wantDraft     string
		wantErr       bool
	}{
		{
			name:     "defaults",
			wantMode: domain.ModeWork,
		},
		{
			name:        "config default mode",
			defaultMode: "long_break",
			wantMode:    domain.ModeLongBreak,
		},
		{
			name:        "flag wins over config",
			mode:        "short",
			defaultMode: "long_break",
			wantMode:    domain.ModeShortBreak,
		},
		{
			name:    "unknown mode",
			mode:    "nap",
			wantErr: true,
		},
		{
			name:          "task flag commits",
			task:          "write report",
			wantMode:      domain.ModeWork,
			wantCommitted: "write report",
			wantDraft:     "write report",
		},
		{
			name:      "git suggestion fills draft only",
			fromGit:   true,
			git:       fakeGit{info: &ports.GitInfo{Branch: "feature/PROJ-12-login-page"}},
			wantMode:  domain.ModeWork,
			wantDraft: "login page",
		},
		{
			name:          "task flag wins over git",
			task:          "review",
			fromGit:       true,
			git:           fakeGit{info: &ports.GitInfo{Branch: "fix/typo"}},
			wantMode:      domain.ModeWork,
			wantCommitted: "review",
			wantDraft:     "review",
		},
		{
			name:     "git failure is ignored",
			fromGit:  true,
			git:      fakeGit{err: errors.New("not a git repository")},
			wantMode: domain.ModeWork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := useTestApp(t, tt.git)
			app.config.UI.DefaultMode = tt.defaultMode
			modeFlag = tt.mode
			taskFlag = tt.task
			fromGit = tt.fromGit

			err := applyStartupOptions(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyStartupOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			snap := ctrl.Snapshot()
			if snap.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", snap.Mode, tt.wantMode)
			}
			if snap.CommittedText != tt.wantCommitted {
				t.Errorf("committed = %q, want %q", snap.CommittedText, tt.wantCommitted)
			}
			if snap.DraftText != tt.wantDraft {
				t.Errorf("draft = %q, want %q", snap.DraftText, tt.wantDraft)
			}
			if snap.Running {
				t.Error("startup options must not start the countdown")
			}
		})
	}
}

func TestSkipServices(t *testing.T) {
	if !skipServices(configPathCmd) {
		t.Error("config subcommands should skip services")
	}
	if !skipServices(modesCmd) {
		t.Error("modes should skip services")
	}
	if skipServices(mcpCmd) {
		t.Error("mcp needs services")
	}
	if skipServices(rootCmd) {
		t.Error("root needs services")
	}
}
