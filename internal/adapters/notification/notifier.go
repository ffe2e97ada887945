// Package notification provides the completion alert: an audible beep and
// a desktop notification.
package notification

import (
	"errors"
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// Notifier implements ports.Alerter.
type Notifier struct {
	cfg config.NotificationConfig
	// mode reports the mode whose countdown just finished; may be nil.
	mode func() domain.Mode

	beep   func(freq float64, durationMS int) error
	notify func(title, message string, icon any) error
}

// Ensure Notifier implements ports.Alerter.
var _ ports.Alerter = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg config.NotificationConfig) *Notifier {
	if cfg.BeepFrequency <= 0 {
		cfg.BeepFrequency = beeep.DefaultFreq
	}
	if cfg.BeepDurationMS <= 0 {
		cfg.BeepDurationMS = beeep.DefaultDuration
	}
	return &Notifier{
		cfg:    cfg,
		beep:   beeep.Beep,
		notify: beeep.Notify,
	}
}

// WithMode sets the source of the finished mode used in the message.
func (n *Notifier) WithMode(mode func() domain.Mode) *Notifier {
	n.mode = mode
	return n
}

// Play beeps when sound is on and posts a notification when enabled.
// Both are attempted; their errors are joined.
func (n *Notifier) Play() error {
	var errs []error
	if n.cfg.Sound {
		if err := n.beep(n.cfg.BeepFrequency, n.cfg.BeepDurationMS); err != nil {
			errs = append(errs, fmt.Errorf("beep: %w", err))
		}
	}
	if n.cfg.Enabled {
		title, message := n.message()
		if err := n.notify(title, message, ""); err != nil {
			errs = append(errs, fmt.Errorf("notify: %w", err))
		}
	}
	return errors.Join(errs...)
}

// IsEnabled returns true if either output is on.
func (n *Notifier) IsEnabled() bool {
	return n.cfg.Enabled || n.cfg.Sound
}

func (n *Notifier) message() (string, string) {
	mode := domain.ModeWork
	if n.mode != nil {
		mode = n.mode()
	}
	if mode.IsBreak() {
		return "☕ Break Over!", fmt.Sprintf("Your %s is complete. Ready to focus?", mode.Label())
	}
	return "🍅 Pomodoro Complete!", "Great job! Time for a break."
}
