package domain

import (
	"fmt"
	"strings"
)

// TimerState holds the countdown for the active mode.
type TimerState struct {
	Mode             Mode
	SecondsRemaining int
	Running          bool
}

// NewTimerState returns an idle countdown for mode at its full length.
func NewTimerState(mode Mode) TimerState {
	return TimerState{
		Mode:             mode,
		SecondsRemaining: mode.DefaultSeconds(),
	}
}

// rearm stops the countdown and restores the mode default.
func (t *TimerState) rearm() {
	t.Running = false
	t.SecondsRemaining = t.Mode.DefaultSeconds()
}

// TaskState holds the task note typed by the user.
// An empty Committed means there is no active task.
type TaskState struct {
	Draft     string
	Committed string
}

// SetDraft stores pending text verbatim.
func (t *TaskState) SetDraft(text string) {
	t.Draft = text
}

// Commit promotes the trimmed draft. Blank drafts are ignored.
func (t *TaskState) Commit() bool {
	trimmed := strings.TrimSpace(t.Draft)
	if trimmed == "" {
		return false
	}
	t.Committed = trimmed
	return true
}

// Clear drops both draft and committed text.
func (t *TaskState) Clear() {
	t.Draft = ""
	t.Committed = ""
}

// TickResult describes what a single tick did.
type TickResult int

const (
	// TickIgnored means the countdown was not running.
	TickIgnored TickResult = iota
	// TickDecremented means one second was consumed.
	TickDecremented
	// TickCompleted means the countdown reached zero on this tick.
	TickCompleted
)

// Pomodoro is the combined timer and task state machine.
//
// States are Idle (Running=false) and Running. Start moves Idle to Running;
// Pause and natural completion move back to Idle. SelectMode and Reset force
// Idle with the countdown restored to the mode default. There is no terminal
// state.
type Pomodoro struct {
	Timer TimerState
	Task  TaskState
}

// NewPomodoro returns the initial state: idle, Work mode, no task.
func NewPomodoro() *Pomodoro {
	return &Pomodoro{Timer: NewTimerState(ModeWork)}
}

// SelectMode switches mode and stops the countdown. Task text is kept.
func (p *Pomodoro) SelectMode(mode Mode) {
	p.Timer.Mode = mode
	p.Timer.rearm()
}

// Start sets the countdown running. A countdown sitting at zero after a
// completion restarts from the mode default.
func (p *Pomodoro) Start() {
	if p.Timer.Running {
		return
	}
	if p.Timer.SecondsRemaining <= 0 {
		p.Timer.SecondsRemaining = p.Timer.Mode.DefaultSeconds()
	}
	p.Timer.Running = true
}

// Pause stops the countdown, keeping the remaining time.
func (p *Pomodoro) Pause() {
	p.Timer.Running = false
}

// Reset stops the countdown, restores the mode default and clears the task.
func (p *Pomodoro) Reset() {
	p.Timer.rearm()
	p.Task.Clear()
}

// SetDraftText stores uncommitted task text.
func (p *Pomodoro) SetDraftText(text string) {
	p.Task.SetDraft(text)
}

// CommitTask commits the trimmed draft; blank drafts are a no-op.
func (p *Pomodoro) CommitTask() bool {
	return p.Task.Commit()
}

// Tick consumes one second of a running countdown.
func (p *Pomodoro) Tick() TickResult {
	if !p.Timer.Running {
		return TickIgnored
	}
	if p.Timer.SecondsRemaining > 1 {
		p.Timer.SecondsRemaining--
		return TickDecremented
	}
	p.Timer.SecondsRemaining = 0
	p.Timer.Running = false
	p.Task.Clear()
	return TickCompleted
}

// Snapshot returns an immutable copy of the state.
func (p *Pomodoro) Snapshot() Snapshot {
	return Snapshot{
		Mode:             p.Timer.Mode,
		SecondsRemaining: p.Timer.SecondsRemaining,
		Running:          p.Timer.Running,
		DraftText:        p.Task.Draft,
		CommittedText:    p.Task.Committed,
	}
}

// FormatClock renders seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
