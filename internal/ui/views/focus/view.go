package focus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	focusdto "neurofade/internal/modules/focus/dto"
	"neurofade/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type FocusPort interface {
	Start(ctx context.Context, duration time.Duration, blockList []string) (focusdto.SessionOutput, error)
	Stop(ctx context.Context) (focusdto.SessionOutput, error)
	Status(ctx context.Context) (focusdto.SessionOutput, error)
	Presets(ctx context.Context) ([]focusdto.PresetOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type PresetsLoadedMsg struct {
	Presets []focusdto.PresetOutput
	Err     error
}

// SessionMsg carries the outcome of a start, stop or status call.
type SessionMsg struct {
	Action  string
	Session focusdto.SessionOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	ctx      context.Context
	port     FocusPort
	presets  []focusdto.PresetOutput
	selected int
	fallback time.Duration
	session  focusdto.SessionOutput
	bar      progress.Model
	width    int
	height   int
}

// New returns a focus view preselecting the preset matching defaultDuration.
func New(ctx context.Context, port FocusPort, defaultDuration time.Duration) Model {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Lavender)),
		progress.WithoutPercentage(),
	)
	return Model{
		ctx:      ctx,
		port:     port,
		fallback: defaultDuration,
		session:  focusdto.SessionOutput{State: "idle", Remaining: defaultDuration},
		bar:      bar,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPresetsCmd(), m.statusCmd())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-8))

	case PresetsLoadedMsg:
		if msg.Err == nil {
			m.presets = msg.Presets
			m.selected = 0
			for i, p := range m.presets {
				if p.Duration == m.fallback {
					m.selected = i
				}
			}
			if !m.Running() && len(m.presets) > 0 {
				m.session.Countdown = m.presets[m.selected].Countdown
			}
		}

	case SessionMsg:
		if msg.Err == nil {
			m.session = msg.Session
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			m.cycle(-1)
		case "right", "l":
			m.cycle(1)
		}
	}
	return m, nil
}

// SetSession replaces the displayed session, typically from a focus event.
func (m *Model) SetSession(s focusdto.SessionOutput) { m.session = s }

func (m Model) Session() focusdto.SessionOutput { return m.session }

func (m Model) Running() bool { return m.session.State == "running" }

// SelectedDuration is the preset duration the next session will run for.
func (m Model) SelectedDuration() time.Duration {
	if len(m.presets) == 0 {
		return m.fallback
	}
	return m.presets[m.selected].Duration
}

// StartCmd starts a session with the selected preset and the saved block list.
func (m Model) StartCmd() tea.Cmd {
	duration := m.SelectedDuration()
	return func() tea.Msg {
		if m.port == nil {
			return SessionMsg{Action: "start"}
		}
		s, err := m.port.Start(m.ctx, duration, nil)
		return SessionMsg{Action: "start", Session: s, Err: err}
	}
}

func (m Model) StopCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return SessionMsg{Action: "stop"}
		}
		s, err := m.port.Stop(m.ctx)
		return SessionMsg{Action: "stop", Session: s, Err: err}
	}
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Focus session") + "  ")
	sb.WriteString(theme.StateStyle(m.session.State).Render(m.session.State) + "\n\n")

	sb.WriteString(theme.Countdown.Render(countdown(m.session)) + "\n\n")
	sb.WriteString(m.bar.ViewAs(m.elapsedFraction()) + "\n\n")

	if m.Running() {
		sb.WriteString(fmt.Sprintf("%s %d   %s %s\n",
			theme.Muted.Render("coins this session:"), m.session.Coins,
			theme.Muted.Render("blocking:"), blockedSummary(m.session.BlockList)))
	} else {
		sb.WriteString(m.renderPresets() + "\n")
	}
	if m.session.Message != "" {
		sb.WriteString("\n" + theme.Hot.Render(m.session.Message) + "\n")
	}
	if m.session.Reason != "" && m.session.State == "cancelled" {
		sb.WriteString(theme.Muted.Render("stopped: "+m.session.Reason) + "\n")
	}
	return theme.Pane.Width(max(20, m.width-4)).Render(sb.String())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) cycle(step int) {
	if m.Running() || len(m.presets) == 0 {
		return
	}
	n := len(m.presets)
	m.selected = (m.selected + step + n) % n
	m.session.Duration = m.presets[m.selected].Duration
	m.session.Remaining = m.presets[m.selected].Duration
	m.session.Countdown = m.presets[m.selected].Countdown
}

func (m Model) elapsedFraction() float64 {
	if m.session.Duration <= 0 {
		if m.session.State == "completed" {
			return 1
		}
		return 0
	}
	done := m.session.Duration - m.session.Remaining
	return float64(done) / float64(m.session.Duration)
}

func (m Model) renderPresets() string {
	if len(m.presets) == 0 {
		return theme.Muted.Render("default duration")
	}
	parts := make([]string, len(m.presets))
	for i, p := range m.presets {
		if i == m.selected {
			parts[i] = theme.Hot.Render("[" + p.Label + "]")
		} else {
			parts[i] = theme.Muted.Render(" " + p.Label + " ")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func countdown(s focusdto.SessionOutput) string {
	if s.Countdown == "" {
		return "--:--"
	}
	return s.Countdown
}

func blockedSummary(apps []string) string {
	if len(apps) == 0 {
		return theme.Muted.Render("nothing")
	}
	return strings.Join(apps, ", ")
}

func (m Model) loadPresetsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return PresetsLoadedMsg{}
		}
		presets, err := m.port.Presets(m.ctx)
		return PresetsLoadedMsg{Presets: presets, Err: err}
	}
}

func (m Model) statusCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return SessionMsg{Action: "status"}
		}
		s, err := m.port.Status(m.ctx)
		return SessionMsg{Action: "status", Session: s, Err: err}
	}
}
