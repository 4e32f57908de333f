package leaderboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	rewarddto "neurofade/internal/modules/reward/dto"
	"neurofade/internal/ui/theme"
)

type RewardPort interface {
	Leaderboard(ctx context.Context) (rewarddto.LeaderboardOutput, error)
}

type LoadedMsg struct {
	Board rewarddto.LeaderboardOutput
	Err   error
}

type Model struct {
	ctx   context.Context
	port  RewardPort
	table table.Model
	board rewarddto.LeaderboardOutput
	err   error
	width int
}

func New(ctx context.Context, port RewardPort) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Name", Width: 20},
			{Title: "Coins", Width: 8},
		}),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Surface1).
		BorderBottom(true).
		Foreground(theme.Sapphire).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Peach)
	t.SetStyles(styles)
	return Model{ctx: ctx, port: port, table: t}
}

func (m Model) Init() tea.Cmd { return m.Refresh() }

// Refresh reloads the leaderboard, typically after a reward event.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		board, err := m.port.Leaderboard(m.ctx)
		return LoadedMsg{Board: board, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case LoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.board = msg.Board
		rows := make([]table.Row, len(msg.Board.Entries))
		cursor := 0
		for i, e := range msg.Board.Entries {
			name := e.Name
			if e.Local {
				name = "» " + name
				cursor = i
			}
			rows[i] = table.Row{strconv.Itoa(e.Rank), name, strconv.Itoa(e.Coins)}
		}
		m.table.SetRows(rows)
		m.table.SetCursor(cursor)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Focus gives the table keyboard focus while its tab is active.
func (m *Model) Focus(active bool) {
	if active {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m Model) Board() rewarddto.LeaderboardOutput { return m.board }

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Leaderboard") + "  ")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("rank #%d · %d coins", m.board.Rank, m.board.Coins)) + "\n\n")
	if m.err != nil {
		sb.WriteString(theme.Bad.Render("leaderboard: "+m.err.Error()) + "\n")
	}
	sb.WriteString(m.table.View())
	return theme.Pane.Width(max(20, m.width-4)).Render(sb.String())
}
