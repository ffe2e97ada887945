// Package ports defines the interfaces between the timer core and the
// outside world: the tick source, the alert, git context and the controller
// surface consumed by presentation adapters.
package ports

import (
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// TimerController is the controller surface used by presentation layers.
// This is a driving port (called by the TUI and MCP adapters).
type TimerController interface {
	// SelectMode switches mode, stopping and rearming the countdown.
	SelectMode(mode domain.Mode) domain.Snapshot

	// Start runs the countdown. Calling it while running has no effect.
	Start() domain.Snapshot

	// Pause stops the countdown, preserving the remaining time.
	Pause() domain.Snapshot

	// Reset stops the countdown, restores the mode default and clears the task.
	Reset() domain.Snapshot

	// SetDraftText stores uncommitted task text.
	SetDraftText(text string) domain.Snapshot

	// CommitTask commits the trimmed draft. Blank drafts are ignored.
	CommitTask() domain.Snapshot

	// Snapshot returns the current state.
	Snapshot() domain.Snapshot

	// Subscribe registers an observer channel for controller events.
	Subscribe(buffer int) <-chan domain.Event
}

// Ticker is a cancellable repeating tick source.
type Ticker interface {
	// C delivers the tick times.
	C() <-chan time.Time

	// Stop cancels the ticker. No ticks are delivered afterwards.
	Stop()
}

// Clock provides time operations for testability.
// This is a driven port (implemented by adapters).
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTicker creates a ticker firing every d.
	NewTicker(d time.Duration) Ticker
}

// Alerter plays the audible alert on countdown completion.
// This is a driven port (implemented by adapters).
type Alerter interface {
	// Play triggers the alert once. Errors are best-effort.
	Play() error
}
