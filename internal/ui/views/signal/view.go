package signal

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	signaldto "neurofade/internal/modules/signal/dto"
	"neurofade/internal/ui/theme"
)

const historySize = 30

type SignalPort interface {
	Observe(ctx context.Context) (<-chan signaldto.ObservationOutput, func(), error)
}

// ObserveStartedMsg hands the observation stream to the model.
type ObserveStartedMsg struct {
	Stream <-chan signaldto.ObservationOutput
	Stop   func()
	Err    error
}

type ObservationMsg struct {
	Observation signaldto.ObservationOutput
}

type Model struct {
	ctx     context.Context
	port    SignalPort
	stream  <-chan signaldto.ObservationOutput
	stop    func()
	latest  signaldto.ReadingOutput
	history []string
	err     error
	width   int
}

func New(ctx context.Context, port SignalPort) Model {
	return Model{ctx: ctx, port: port}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return ObserveStartedMsg{}
		}
		stream, stop, err := m.port.Observe(m.ctx)
		return ObserveStartedMsg{Stream: stream, Stop: stop, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ObserveStartedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.stream, m.stop = msg.Stream, msg.Stop
		return m, m.waitCmd()

	case ObservationMsg:
		if msg.Observation.Err != nil {
			m.err = msg.Observation.Err
		} else {
			m.err = nil
			m.latest = msg.Observation.Reading
			m.history = append(m.history, m.latest.Label)
			if len(m.history) > historySize {
				m.history = m.history[len(m.history)-historySize:]
			}
		}
		return m, m.waitCmd()
	}
	return m, nil
}

// Close stops the observation stream.
func (m Model) Close() {
	if m.stop != nil {
		m.stop()
	}
}

// Label is the most recent attention label, empty before the first reading.
func (m Model) Label() string { return m.latest.Label }

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Neural signal") + "\n\n")
	switch {
	case m.err != nil:
		sb.WriteString(theme.Bad.Render("sensor: "+m.err.Error()) + "\n")
	case m.latest.Label == "":
		sb.WriteString(theme.Muted.Render("waiting for the first reading…") + "\n")
	}
	if m.latest.Label != "" {
		sb.WriteString(fmt.Sprintf("%s  %s\n\n",
			theme.Hot.Render(m.latest.Label),
			theme.StressStyle(m.latest.Stress).Render(m.latest.Stress)))
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("alpha %.2f  beta %.2f  hrv %.1f ms",
			m.latest.Alpha, m.latest.Beta, m.latest.HRV)) + "\n\n")
		sb.WriteString(renderHistory(m.history) + "\n")
	}
	return theme.Pane.Width(max(20, m.width-4)).Render(sb.String())
}

func (m Model) waitCmd() tea.Cmd {
	stream, ctx := m.stream, m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case obs := <-stream:
			return ObservationMsg{Observation: obs}
		}
	}
}

func renderHistory(labels []string) string {
	var sb strings.Builder
	for _, l := range labels {
		switch l {
		case "Focused":
			sb.WriteString(theme.Good.Render("█"))
		case "Calm":
			sb.WriteString(theme.Title.Render("▆"))
		default:
			sb.WriteString(theme.Bad.Render("▂"))
		}
	}
	return sb.String()
}
