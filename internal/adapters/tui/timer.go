package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/pomo-cli/internal/ports"
)

// eventBuffer is the subscription buffer for the UI. One event per second
// is produced while running, so a small buffer never drops in practice.
const eventBuffer = 64

// Runner drives a Bubbletea program bound to a timer controller.
type Runner struct {
	timer  ports.TimerController
	opts   Options
	logger *slog.Logger
}

// NewRunner creates a new TUI runner.
func NewRunner(timer ports.TimerController, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{timer: timer, opts: opts, logger: logger}
}

// Run shows the interface and blocks until the user quits or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	opts := r.opts
	var programOpts []tea.ProgramOption
	if opts.Inline {
		if opts.Width == 0 {
			opts.Width = getTerminalWidth()
		}
	} else {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	model := NewModel(r.timer, r.timer.Subscribe(eventBuffer), opts)
	program := tea.NewProgram(model, programOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		program.Quit()
	}()

	r.logger.Debug("tui started", "inline", opts.Inline)
	_, err := program.Run()

	cancel()
	wg.Wait()

	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
