// Package testutil provides fakes shared by package tests.
package testutil

import (
	"sync"
	"time"

	"github.com/xvierd/pomo-cli/internal/ports"
)

// FakeClock is a manually driven ports.Clock.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*FakeTicker
}

// Ensure FakeClock implements ports.Clock.
var _ ports.Clock = (*FakeClock)(nil)

// NewFakeClock creates a clock frozen at now.
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

// Now returns the frozen time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker records and returns a ticker fired only by the test.
func (c *FakeClock) NewTicker(d time.Duration) ports.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &FakeTicker{Interval: d, ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

// Tickers returns every ticker created so far, oldest first.
func (c *FakeClock) Tickers() []*FakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*FakeTicker(nil), c.tickers...)
}

// Last returns the most recently created ticker, or nil.
func (c *FakeClock) Last() *FakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	return c.tickers[len(c.tickers)-1]
}

// Advance moves the clock forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// FakeTicker delivers ticks on demand.
type FakeTicker struct {
	Interval time.Duration

	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

// C returns the tick channel.
func (t *FakeTicker) C() <-chan time.Time {
	return t.ch
}

// Stop marks the ticker stopped.
func (t *FakeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Stopped reports whether Stop was called.
func (t *FakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire delivers one tick. It returns false if nobody received it within a
// second, which means the consuming loop has exited.
func (t *FakeTicker) Fire(at time.Time) bool {
	select {
	case t.ch <- at:
		return true
	case <-time.After(time.Second):
		return false
	}
}

// FakeAlerter counts Play calls.
type FakeAlerter struct {
	Err error
	// Release, when set, makes Play block until it is closed. The call is
	// counted before blocking.
	Release chan struct{}

	mu    sync.Mutex
	plays int
}

// Ensure FakeAlerter implements ports.Alerter.
var _ ports.Alerter = (*FakeAlerter)(nil)

// Play records the call and returns Err.
func (a *FakeAlerter) Play() error {
	a.mu.Lock()
	a.plays++
	release, err := a.Release, a.Err
	a.mu.Unlock()

	if release != nil {
		<-release
	}
	return err
}

// Plays returns how many times Play was called.
func (a *FakeAlerter) Plays() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.plays
}
