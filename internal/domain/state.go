package domain

import (
	"time"
)

// Status is the presentation-level state of the countdown.
type Status string

const (
	StatusReady    Status = "ready"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// Snapshot captures the timer and task state at a point in time.
type Snapshot struct {
	Mode             Mode   `json:"mode" yaml:"mode"`
	SecondsRemaining int    `json:"seconds_remaining" yaml:"seconds_remaining"`
	Running          bool   `json:"running" yaml:"running"`
	DraftText        string `json:"draft_text" yaml:"draft_text"`
	CommittedText    string `json:"committed_text" yaml:"committed_text"`
}

// Clock returns the remaining time as MM:SS.
func (s Snapshot) Clock() string {
	return FormatClock(s.SecondsRemaining)
}

// Remaining returns the remaining time as a duration.
func (s Snapshot) Remaining() time.Duration {
	return time.Duration(s.SecondsRemaining) * time.Second
}

// HasTask returns true when a task has been committed.
func (s Snapshot) HasTask() bool {
	return s.CommittedText != ""
}

// Progress returns the elapsed fraction of the mode's countdown (0.0 to 1.0).
func (s Snapshot) Progress() float64 {
	total := s.Mode.DefaultSeconds()
	if total <= 0 {
		return 0
	}
	progress := float64(total-s.SecondsRemaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Status derives the display status from the countdown.
func (s Snapshot) Status() Status {
	switch {
	case s.Running:
		return StatusRunning
	case s.SecondsRemaining == 0:
		return StatusFinished
	case s.SecondsRemaining < s.Mode.DefaultSeconds():
		return StatusPaused
	default:
		return StatusReady
	}
}

// GetStatusLabel returns a human-readable label for the status.
func GetStatusLabel(s Status) string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusFinished:
		return "Time's up"
	default:
		return "Unknown"
	}
}

// EventType identifies what produced an Event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventCompleted   EventType = "completed"
)

// Event is delivered to controller observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	// CompletionID is set only on EventCompleted.
	CompletionID string
	At           time.Time
}
