// Package services implements the timer use cases on top of the domain
// state machine.
package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// TickInterval is how often a running countdown consumes one second.
const TickInterval = time.Second

// Controller owns the timer and task state, the tick source and the alert.
// All methods are safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	state   *domain.Pomodoro
	clock   ports.Clock
	alerter ports.Alerter
	logger  *slog.Logger

	// stop is non-nil while a tick loop is outstanding. Closing it cancels
	// that loop; a loop whose channel is no longer current is stale.
	stop   chan struct{}
	wg     sync.WaitGroup
	subs   []chan domain.Event
	closed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithAlerter sets the completion alert.
func WithAlerter(a ports.Alerter) Option {
	return func(c *Controller) { c.alerter = a }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates an idle controller in Work mode.
func NewController(clock ports.Clock, opts ...Option) *Controller {
	c := &Controller{
		state:  domain.NewPomodoro(),
		clock:  clock,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ensure Controller implements ports.TimerController.
var _ ports.TimerController = (*Controller)(nil)

// SelectMode switches mode and cancels any running countdown. Unknown modes
// leave the state untouched.
func (c *Controller) SelectMode(mode domain.Mode) domain.Snapshot {
	return c.mutate("select_mode", func() {
		if !mode.Valid() {
			c.logger.Warn("ignored unknown mode", "mode", mode)
			return
		}
		c.state.SelectMode(mode)
		c.stopTickerLocked()
	})
}

// Start runs the countdown, arming a tick source if none is outstanding.
func (c *Controller) Start() domain.Snapshot {
	return c.mutate("start", func() {
		c.state.Start()
		if c.stop == nil {
			c.startTickerLocked()
		}
	})
}

// Pause stops the countdown, keeping the remaining time.
func (c *Controller) Pause() domain.Snapshot {
	return c.mutate("pause", func() {
		c.state.Pause()
		c.stopTickerLocked()
	})
}

// Reset stops the countdown, restores the mode default and clears the task.
func (c *Controller) Reset() domain.Snapshot {
	return c.mutate("reset", func() {
		c.state.Reset()
		c.stopTickerLocked()
	})
}

// SetDraftText stores uncommitted task text.
func (c *Controller) SetDraftText(text string) domain.Snapshot {
	return c.mutate("set_draft", func() {
		c.state.SetDraftText(text)
	})
}

// CommitTask commits the trimmed draft. Blank drafts are silently ignored.
func (c *Controller) CommitTask() domain.Snapshot {
	return c.mutate("commit_task", func() {
		if !c.state.CommitTask() {
			c.logger.Debug("ignored blank task commit")
		}
	})
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// Subscribe registers a new observer channel. Sends never block: events are
// dropped for observers whose buffer is full. The channel is closed by Close.
func (c *Controller) Subscribe(buffer int) <-chan domain.Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan domain.Event, buffer)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch
	}
	c.subs = append(c.subs, ch)
	return ch
}

// Close cancels the tick source, waits for it to exit and closes observers.
// The controller ignores all operations afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTickerLocked()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	c.wg.Wait()
	for _, ch := range subs {
		close(ch)
	}
}

// mutate applies fn under the lock and broadcasts the resulting state.
func (c *Controller) mutate(op string, fn func()) domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Debug("operation on closed controller", "op", op)
		return c.state.Snapshot()
	}

	fn()
	snap := c.state.Snapshot()
	c.logger.Debug("timer operation",
		"op", op,
		"mode", snap.Mode,
		"remaining", snap.Remaining(),
		"running", snap.Running)
	c.emitLocked(domain.Event{
		Type:     domain.EventStateChange,
		Snapshot: snap,
		At:       c.clock.Now(),
	})
	return snap
}

// startTickerLocked arms a new tick loop. Any previous loop is cancelled
// first so that at most one is outstanding.
func (c *Controller) startTickerLocked() {
	c.stopTickerLocked()
	stop := make(chan struct{})
	c.stop = stop
	ticker := c.clock.NewTicker(TickInterval)

	c.wg.Add(1)
	go c.run(ticker, stop)
}

func (c *Controller) stopTickerLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Controller) run(ticker ports.Ticker, stop chan struct{}) {
	defer c.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if done := c.tick(stop); done {
				return
			}
		}
	}
}

// tick applies one tick for the loop owning stop. It reports whether the
// loop should exit.
func (c *Controller) tick(stop chan struct{}) bool {
	c.mu.Lock()
	if c.stop != stop {
		// Cancelled between the fire and acquiring the lock.
		c.mu.Unlock()
		return true
	}

	result := c.state.Tick()
	snap := c.state.Snapshot()
	now := c.clock.Now()

	if result != domain.TickCompleted {
		c.emitLocked(domain.Event{Type: domain.EventTick, Snapshot: snap, At: now})
		c.mu.Unlock()
		return false
	}

	// The loop exits on its own; drop the handle without closing it.
	c.stop = nil
	completionID := domain.NewCompletionID()
	c.emitLocked(domain.Event{
		Type:         domain.EventCompleted,
		Snapshot:     snap,
		CompletionID: completionID,
		At:           now,
	})
	c.mu.Unlock()

	// The alert may block; operations arriving meanwhile are ordered after
	// the completion event.
	c.logger.Info("countdown completed", "mode", snap.Mode, "completion_id", completionID)
	c.playAlert(completionID)
	return true
}

// playAlert fires the alert once. Failures never reach the caller.
func (c *Controller) playAlert(completionID string) {
	if c.alerter == nil {
		return
	}
	if err := c.alerter.Play(); err != nil {
		c.logger.Warn("alert playback failed", "completion_id", completionID, "error", err)
	}
}

func (c *Controller) emitLocked(event domain.Event) {
	for _, ch := range c.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
