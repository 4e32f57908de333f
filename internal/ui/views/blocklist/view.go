package blocklist

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	blocklistdto "neurofade/internal/modules/blocklist/dto"
	"neurofade/internal/ui/theme"
)

type BlockListPort interface {
	Catalog(ctx context.Context) ([]blocklistdto.AppOutput, error)
	Add(ctx context.Context, app string) (blocklistdto.BlockListOutput, error)
	Remove(ctx context.Context, app string) (blocklistdto.BlockListOutput, error)
}

type CatalogLoadedMsg struct {
	Apps []blocklistdto.AppOutput
	Err  error
}

// ToggledMsg reports the saved list after an app was added or removed.
type ToggledMsg struct {
	App string
	Out blocklistdto.BlockListOutput
	Err error
}

type Model struct {
	ctx    context.Context
	port   BlockListPort
	apps   []blocklistdto.AppOutput
	cursor int
	locked bool
	err    error
	width  int
}

func New(ctx context.Context, port BlockListPort) Model {
	return Model{ctx: ctx, port: port}
}

func (m Model) Init() tea.Cmd { return m.loadCmd() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case CatalogLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.apps = msg.Apps
			m.cursor = min(m.cursor, max(0, len(m.apps)-1))
		}

	case ToggledMsg:
		m.err = msg.Err
		if msg.Err == nil {
			return m, m.loadCmd()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.apps)-1 {
				m.cursor++
			}
		case " ", "enter":
			return m, m.toggleCmd()
		}
	}
	return m, nil
}

// SetLocked marks that a running session already captured the current list.
func (m *Model) SetLocked(locked bool) { m.locked = locked }

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Blocked apps") + "\n")
	if m.locked {
		sb.WriteString(theme.Muted.Render("changes apply to the next session") + "\n")
	}
	sb.WriteString("\n")
	for i, app := range m.apps {
		box := "[ ]"
		if app.Selected {
			box = theme.Good.Render("[x]")
		}
		line := box + " " + app.Name
		if i == m.cursor {
			line = theme.Hot.Render("›") + " " + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}
	if m.err != nil {
		sb.WriteString("\n" + theme.Bad.Render("block list: "+m.err.Error()) + "\n")
	}
	return theme.Pane.Width(max(20, m.width-4)).Render(sb.String())
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return CatalogLoadedMsg{}
		}
		apps, err := m.port.Catalog(m.ctx)
		return CatalogLoadedMsg{Apps: apps, Err: err}
	}
}

func (m Model) toggleCmd() tea.Cmd {
	if m.port == nil || len(m.apps) == 0 {
		return nil
	}
	app := m.apps[m.cursor]
	return func() tea.Msg {
		var out blocklistdto.BlockListOutput
		var err error
		if app.Selected {
			out, err = m.port.Remove(m.ctx, app.ID)
		} else {
			out, err = m.port.Add(m.ctx, app.ID)
		}
		return ToggledMsg{App: app.ID, Out: out, Err: err}
	}
}
