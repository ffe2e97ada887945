// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// taskCharLimit bounds the task note typed in the UI.
const taskCharLimit = 120

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// eventMsg carries a controller event into the update loop.
type eventMsg domain.Event

// eventsClosedMsg is sent once the controller stops publishing.
type eventsClosedMsg struct{}

// waitForEvent returns a command that blocks until the next controller event.
func waitForEvent(events <-chan domain.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(e)
	}
}

// Options configures the model.
type Options struct {
	Theme  *config.ThemeConfig
	Inline bool
	// Width seeds the layout width before the first WindowSizeMsg.
	Width int
}

// Model represents the TUI state. It renders snapshots and forwards every
// user action to the controller; it never mutates timer state itself.
type Model struct {
	timer  ports.TimerController
	events <-chan domain.Event

	snap  domain.Snapshot
	input textinput.Model
	keys  KeyMap
	help  help.Model
	theme config.ThemeConfig

	width  int
	height int
	inline bool
}

// NewModel creates a new TUI model bound to timer.
func NewModel(timer ports.TimerController, events <-chan domain.Event, opts Options) Model {
	snap := timer.Snapshot()

	input := textinput.New()
	input.Placeholder = "What are you working on?"
	input.Prompt = "› "
	input.CharLimit = taskCharLimit
	input.SetValue(snap.DraftText)

	return Model{
		timer:  timer,
		events: events,
		snap:   snap,
		input:  input,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		theme:  resolveTheme(opts.Theme),
		width:  opts.Width,
		inline: opts.Inline,
	}
}

// Init starts listening for controller events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Snapshot returns the state currently displayed.
func (m Model) Snapshot() domain.Snapshot {
	return m.snap
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.applyEvent(domain.Event(msg))
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applyEvent(e domain.Event) {
	m.snap = e.Snapshot
	// While typing the input is ahead of the controller; only resync when
	// the draft was cleared or changed elsewhere.
	if !m.input.Focused() || e.Type == domain.EventCompleted {
		m.syncInput()
	}
}

func (m *Model) syncInput() {
	if m.input.Value() != m.snap.DraftText {
		m.input.SetValue(m.snap.DraftText)
	}
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		if m.snap.Running {
			m.snap = m.timer.Pause()
		} else {
			m.snap = m.timer.Start()
		}
	case key.Matches(msg, m.keys.Reset):
		m.snap = m.timer.Reset()
		m.syncInput()
	case key.Matches(msg, m.keys.NextMode):
		m.snap = m.timer.SelectMode(m.snap.Mode.Next())
	case key.Matches(msg, m.keys.PrevMode):
		m.snap = m.timer.SelectMode(m.snap.Mode.Prev())
	case key.Matches(msg, m.keys.Work):
		m.snap = m.timer.SelectMode(domain.ModeWork)
	case key.Matches(msg, m.keys.ShortBreak):
		m.snap = m.timer.SelectMode(domain.ModeShortBreak)
	case key.Matches(msg, m.keys.LongBreak):
		m.snap = m.timer.SelectMode(domain.ModeLongBreak)
	case key.Matches(msg, m.keys.EditTask):
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Commit):
		m.snap = m.timer.CommitTask()
		if m.snap.HasTask() {
			m.input.Blur()
		}
		return m, nil
	case key.Matches(msg, m.keys.Blur):
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.snap.DraftText {
		m.snap = m.timer.SetDraftText(v)
	}
	return m, cmd
}

// accentColor returns the color for the current mode, accounting for pause state.
func (m Model) accentColor() lipgloss.Color {
	if m.snap.Status() == domain.StatusPaused {
		return lipgloss.Color(m.theme.ColorPaused)
	}
	if m.snap.Mode.IsBreak() {
		return lipgloss.Color(m.theme.ColorBreak)
	}
	return lipgloss.Color(m.theme.ColorWork)
}

func (m Model) progressBar(width int) string {
	var pbar progress.Model
	switch {
	case m.snap.Status() == domain.StatusPaused:
		pbar = progress.New(progress.WithGradient(m.theme.PausedGradientStart, m.theme.PausedGradientEnd))
	case m.snap.Mode.IsBreak():
		pbar = progress.New(progress.WithGradient(m.theme.BreakGradientStart, m.theme.BreakGradientEnd))
	default:
		pbar = progress.New(progress.WithGradient(m.theme.WorkGradientStart, m.theme.WorkGradientEnd))
	}
	pbar.Width = width
	return pbar.ViewAs(m.snap.Progress())
}

func (m Model) helpView() string {
	if m.input.Focused() {
		return m.help.View(inputKeyMap{keys: m.keys})
	}
	return m.help.View(m.keys)
}

// View renders the model.
func (m Model) View() string {
	if m.inline {
		return m.viewCompact()
	}
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)

	sections := []string{
		titleStyle.Render(fmt.Sprintf("%s Pomodoro", m.theme.IconApp)),
		m.viewTabs(),
		"",
		m.viewTask(),
		"",
		renderClock(m.snap.Clock(), m.accentColor(), m.width),
		"",
		m.viewStatus(),
		"",
		m.progressBar(m.width - 4),
		"",
		m.helpView(),
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTabs() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(m.accentColor()).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.ColorHelp)).
		Padding(0, 1)

	tabs := make([]string, len(domain.Modes))
	for i, mode := range domain.Modes {
		label := mode.Label()
		if mode == m.snap.Mode {
			tabs[i] = active.Render(label)
		} else {
			tabs[i] = inactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewTask() string {
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	if m.snap.HasTask() && !m.input.Focused() {
		return taskStyle.Render(fmt.Sprintf("%s Current Task: %s", m.theme.IconTask, m.snap.CommittedText))
	}
	if !m.input.Focused() && m.input.Value() == "" {
		hint := lipgloss.NewStyle().Faint(true)
		return hint.Render(fmt.Sprintf("%s No task yet. Press i to add one", m.theme.IconTask))
	}
	return m.input.View()
}

func (m Model) viewStatus() string {
	status := m.snap.Status()
	label := fmt.Sprintf("%s · %s", m.snap.Mode.Label(), domain.GetStatusLabel(status))

	switch status {
	case domain.StatusPaused:
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(m.theme.ColorPaused)).
			Padding(0, 1).
			Render(fmt.Sprintf("%s PAUSED", m.theme.IconPaused))
	case domain.StatusFinished:
		return lipgloss.NewStyle().Bold(true).Foreground(m.accentColor()).
			Render(fmt.Sprintf("%s %s", m.theme.IconDone, label))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPaused)).Render(label)
	}
}

// statusLine is the plain text summary used by the compact layout.
func (m Model) statusLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s", m.theme.IconApp, m.snap.Mode.Label(), m.snap.Clock())
	switch m.snap.Status() {
	case domain.StatusPaused:
		fmt.Fprintf(&b, "  %s PAUSED", m.theme.IconPaused)
	case domain.StatusFinished:
		fmt.Fprintf(&b, "  %s %s", m.theme.IconDone, domain.GetStatusLabel(domain.StatusFinished))
	}
	if m.snap.HasTask() {
		fmt.Fprintf(&b, "  %s %s", m.theme.IconTask, m.snap.CommittedText)
	}
	return b.String()
}
