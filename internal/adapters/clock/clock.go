// Package clock provides the system implementation of ports.Clock.
package clock

import (
	"time"

	"github.com/xvierd/pomo-cli/internal/ports"
)

// System implements ports.Clock using the wall clock.
type System struct{}

// Ensure System implements ports.Clock.
var _ ports.Clock = System{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

// NewTicker returns a ticker backed by time.Ticker.
func (System) NewTicker(d time.Duration) ports.Ticker {
	return ticker{t: time.NewTicker(d)}
}

type ticker struct {
	t *time.Ticker
}

func (t ticker) C() <-chan time.Time { return t.t.C }

func (t ticker) Stop() { t.t.Stop() }
