// Package domain contains the core state machine of the Pomodoro timer.
// It has no goroutines and performs no I/O; the services layer drives it.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrUnknownMode is returned when a mode name cannot be resolved.
var ErrUnknownMode = errors.New("unknown timer mode")

// Mode represents one of the fixed timer categories.
type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// Modes lists all modes in tab order.
var Modes = []Mode{
	ModeWork,
	ModeShortBreak,
	ModeLongBreak,
}

// DefaultSeconds returns the immutable countdown length of the mode.
func (m Mode) DefaultSeconds() int {
	switch m {
	case ModeShortBreak:
		return 5 * 60
	case ModeLongBreak:
		return 15 * 60
	default:
		return 25 * 60
	}
}

// Label returns a human-readable label.
func (m Mode) Label() string {
	switch m {
	case ModeWork:
		return "Work"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// IsBreak returns true for both break modes.
func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Next returns the mode after m in tab order, wrapping around.
func (m Mode) Next() Mode {
	return Modes[(m.index()+1)%len(Modes)]
}

// Prev returns the mode before m in tab order, wrapping around.
func (m Mode) Prev() Mode {
	return Modes[(m.index()+len(Modes)-1)%len(Modes)]
}

func (m Mode) index() int {
	for i, known := range Modes {
		if m == known {
			return i
		}
	}
	return 0
}

var modeAliases = map[string]Mode{
	"work":        ModeWork,
	"focus":       ModeWork,
	"pomodoro":    ModeWork,
	"1":           ModeWork,
	"short_break": ModeShortBreak,
	"short-break": ModeShortBreak,
	"short break": ModeShortBreak,
	"short":       ModeShortBreak,
	"sb":          ModeShortBreak,
	"2":           ModeShortBreak,
	"long_break":  ModeLongBreak,
	"long-break":  ModeLongBreak,
	"long break":  ModeLongBreak,
	"long":        ModeLongBreak,
	"lb":          ModeLongBreak,
	"3":           ModeLongBreak,
}

// ParseMode resolves a user-supplied mode name. Exact names, labels and
// aliases win; otherwise the best fuzzy match against the labels is used.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownMode)
	}
	if m, ok := modeAliases[key]; ok {
		return m, nil
	}

	labels := make([]string, len(Modes))
	for i, m := range Modes {
		labels[i] = strings.ToLower(m.Label())
	}
	matches := fuzzy.Find(key, labels)
	if len(matches) == 0 {
		return "", fmt.Errorf("%w %q: must be one of work, short_break, long_break", ErrUnknownMode, s)
	}
	return Modes[matches[0].Index], nil
}
