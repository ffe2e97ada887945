package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/xvierd/pomo-cli/internal/adapters/clock"
	"github.com/xvierd/pomo-cli/internal/adapters/git"
	"github.com/xvierd/pomo-cli/internal/adapters/notification"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/logging"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/services"
)

// skipServicesAnnotation marks commands that run without the timer stack.
const skipServicesAnnotation = "pomo/skip-services"

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config    *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	timer     *services.Controller
	notifier  *notification.Notifier
	git       ports.GitDetector
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	app.config = cfg

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, closer, err := logging.New(cfg.Log.File, logging.ParseLevel(level))
	if err != nil {
		// A broken log file must not keep the timer from running.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logger, closer, _ = logging.New(logging.Disabled, slog.LevelInfo)
	}
	app.logger = logger
	app.logCloser = closer

	if noSound {
		cfg.Notifications.Sound = false
	}
	app.notifier = notification.New(cfg.Notifications).WithMode(currentMode)
	app.git = git.NewDetector()

	app.timer = services.NewController(clock.System{}, controllerOptions(logger, app.notifier)...)

	logger.Debug("services initialized",
		"config", configPath,
		"sound", cfg.Notifications.Sound,
		"notifications", cfg.Notifications.Enabled,
	)
	return nil
}

// controllerOptions wires the notifier as the alert only when it has an
// output turned on.
func controllerOptions(logger *slog.Logger, notifier *notification.Notifier) []services.Option {
	opts := []services.Option{services.WithLogger(logger)}
	if notifier.IsEnabled() {
		opts = append(opts, services.WithAlerter(notifier))
	}
	return opts
}

// currentMode reports the controller's mode to the notifier.
func currentMode() domain.Mode {
	if app.timer == nil {
		return domain.ModeWork
	}
	return app.timer.Snapshot().Mode
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.timer != nil {
		app.timer.Close()
	}
	var err error
	if app.logCloser != nil {
		err = app.logCloser.Close()
	}
	app = appDeps{}
	return err
}

// setupSignalHandler returns a context cancelled on interrupt signals.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// applyStartupOptions seeds the controller from flags and config before the
// interface takes over. An explicit --task wins over a git suggestion, and a
// git suggestion only ever fills the draft.
func applyStartupOptions(ctx context.Context) error {
	modeStr := app.config.UI.DefaultMode
	if modeFlag != "" {
		modeStr = modeFlag
	}
	if modeStr != "" {
		mode, err := domain.ParseMode(modeStr)
		if err != nil {
			return fmt.Errorf("invalid mode: %w", err)
		}
		app.timer.SelectMode(mode)
	}

	if taskFlag != "" {
		app.timer.SetDraftText(taskFlag)
		app.timer.CommitTask()
		return nil
	}

	if fromGit || app.config.UI.TaskFromGit {
		if suggestion := suggestFromGit(ctx); suggestion != "" {
			app.timer.SetDraftText(suggestion)
		}
	}
	return nil
}

// suggestFromGit returns a task note derived from the working directory's
// repository, or "" when there is nothing to suggest.
func suggestFromGit(ctx context.Context) string {
	workingDir, err := os.Getwd()
	if err != nil {
		app.logger.Warn("git suggestion skipped", "error", err)
		return ""
	}
	info, err := app.git.Detect(ctx, workingDir)
	if err != nil {
		app.logger.Info("git suggestion unavailable", "dir", workingDir, "error", err)
		return ""
	}
	suggestion := services.SuggestTask(info)
	app.logger.Info("git suggestion",
		"repository", info.Repository,
		"branch", info.Branch,
		"commit", git.ShortCommit(info.Commit),
		"task", suggestion,
	)
	return suggestion
}
