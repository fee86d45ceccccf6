// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wordsprint/internal/controller"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/session"
)

// DefaultPollInterval is how often the session clock is checked.
const DefaultPollInterval = 50 * time.Millisecond

const startHint = `Type "! " to start`

type pollMsg time.Time

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctrl      *controller.Controller
	input     textinput.Model
	pollEvery time.Duration

	width  int
	height int

	status     controller.Status
	lastRecord *model.ResultRecord
	notice     string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a typing TUI model around a controller whose
// dictionary is already selected.
func NewModel(ctrl *controller.Controller, pollEvery time.Duration) *Model {
	if pollEvery <= 0 {
		pollEvery = DefaultPollInterval
	}
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 64
	input.Focus()
	return &Model{
		ctrl:      ctrl,
		input:     input,
		pollEvery: pollEvery,
		status:    ctrl.Status(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.schedulePoll())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width/2, 10)
		return m, nil
	case pollMsg:
		m.handlePoll()
		return m, m.schedulePoll()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.rearm(m.ctrl.NextDictionary(1))
			return m, nil
		case tea.KeyShiftTab:
			m.rearm(m.ctrl.NextDictionary(-1))
			return m, nil
		case tea.KeyCtrlT:
			m.rearm(m.ctrl.ChangeTimeout(model.NextModeLabel(m.status.Mode)))
			return m, nil
		case tea.KeyCtrlR:
			m.rearm(m.ctrl.Restart())
			return m, nil
		case tea.KeyCtrlS:
			m.flush()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.submit()
		return m, cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderTabs(),
		"",
		m.renderTarget(),
		"",
		m.input.View(),
		noticeStyle.Render(m.notice),
	)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) schedulePoll() tea.Cmd {
	return tea.Tick(m.pollEvery, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m *Model) handlePoll() {
	st := m.ctrl.Poll()
	m.status = st
	if st.Record == nil {
		return
	}
	m.lastRecord = st.Record
	if st.Event == session.Timeout {
		m.input.Reset()
		m.notice = "Time is out! ctrl+r to go again"
	}
}

func (m *Model) submit() {
	st := m.ctrl.SubmitText(m.input.Value())
	m.status = st
	if st.Err != nil {
		m.notice = st.Err.Error()
	}
	if st.Outcome == session.NoOp {
		return
	}
	m.input.Reset()
	if st.Outcome == session.Started {
		m.notice = ""
	}
}

func (m *Model) rearm(_ string, err error) {
	m.input.Reset()
	if err != nil {
		m.notice = err.Error()
	} else {
		m.notice = ""
	}
	m.status = m.ctrl.Status()
}

func (m *Model) flush() {
	count := m.status.Pending
	if err := m.ctrl.Flush(); err != nil {
		m.notice = err.Error()
	} else {
		m.notice = fmt.Sprintf("Saved %d result(s)", count)
	}
	m.status = m.ctrl.Status()
}

func (m *Model) renderTabs() string {
	ids := m.ctrl.Dictionaries()
	parts := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		if id == m.status.Dictionary {
			parts = append(parts, activeTabStyle.Render("["+id+"]"))
		} else {
			parts = append(parts, tabStyle.Render(" "+id+" "))
		}
	}
	parts = append(parts, tabStyle.Render("· "+m.status.Mode))
	return strings.Join(parts, " ")
}

func (m *Model) renderTarget() string {
	switch m.status.State {
	case session.Idle:
		return pendingStyle.Render("Select a dictionary with tab")
	case session.TimedOut:
		return pendingStyle.Render("Time is out")
	case session.Armed:
		return currentWordStyle.Render(m.status.Target) + "  " + pendingStyle.Render(startHint)
	}
	runes := buildStyledRunes([]rune(m.status.Target), []rune(m.input.Value()))
	if m.width > 0 && styledWidth(runes) > m.width {
		return renderStyledRunes(fitStyledRunes(runes, m.width))
	}
	return renderStyledRunes(runes)
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Hits %d · Misses %d", m.status.Hits, m.status.Misses),
	}
	switch m.status.State {
	case session.Armed, session.Running:
		segments = append(segments, formatRemaining(m.status.Remaining, m.status.Mode))
	}
	if m.lastRecord != nil {
		segments = append(segments, "Last "+m.lastRecord.String())
	}
	if m.status.Pending > 0 {
		segments = append(segments, fmt.Sprintf("%d unsaved", m.status.Pending))
	}
	segments = append(segments, "tab dict · ctrl+t mode · ctrl+r restart · ctrl+s save · esc quit")
	footer := strings.Join(segments, "  ")
	if m.width > 0 {
		footer = runewidth.Truncate(footer, m.width, "…")
	}
	return footerStyle.Render(footer)
}

func formatRemaining(d time.Duration, mode string) string {
	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	if mode == "Endless" {
		return fmt.Sprintf("Checkpoint in %d:%02d", minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d left", minutes, seconds)
}
