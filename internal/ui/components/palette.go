package components

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"neurofade/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().Foreground(theme.Lavender)
	hintStyle    = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

type paletteCommand struct {
	name  string
	usage string
	help  string
}

// paletteCommands must stay in sync with the switch in app/model.go
// executePalette.
var paletteCommands = []paletteCommand{
	{name: "focus:start", usage: "[minutes]", help: "start a session"},
	{name: "focus:stop", help: "stop the running session"},
	{name: "permission:request", usage: "<restriction|health>", help: "ask for a capability"},
	{name: "block:add", usage: "<app>", help: "block an app"},
	{name: "block:remove", usage: "<app>", help: "stop blocking an app"},
	{name: "leaderboard:refresh", help: "reload the leaderboard"},
}

type suggestion struct {
	text string
	help string
}

// Palette is a command line with completion. Commands complete first; once
// a command is typed its arguments complete from values the dashboard
// supplies with SetArguments. Tab accepts the ghost completion and up/down
// cycle through the alternatives.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	args    map[string][]string
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command, tab completes"
	ti.CharLimit = 256
	ti.ShowSuggestions = true
	p := Palette{input: ti, args: map[string][]string{}}
	p.refreshCompletions()
	return p
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty line and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// SetArguments replaces the values offered after command.
func (p *Palette) SetArguments(command string, values []string) {
	p.args[command] = slices.Clone(values)
	p.refreshCompletions()
}

func (p *Palette) refreshCompletions() {
	var lines []string
	for _, c := range paletteCommands {
		lines = append(lines, c.name)
		for _, v := range p.args[c.name] {
			lines = append(lines, c.name+" "+v)
		}
	}
	p.input.SetSuggestions(lines)
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if list := p.suggestions(5); len(list) > 0 {
		sb.WriteString("\n")
		for _, s := range list {
			line := "  " + commandStyle.Render(s.text)
			if s.help != "" {
				line += "  " + hintStyle.Render(s.help)
			}
			sb.WriteString(line + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

// suggestions lists up to limit completions of the current line. Before the
// first space they are commands with their usage; after it, the typed
// command's known arguments, or its usage when none are known.
func (p Palette) suggestions(limit int) []suggestion {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimLeft(p.input.Value(), " ")), " ")
	arg = strings.TrimSpace(arg)

	var out []suggestion
	for _, c := range paletteCommands {
		if !hasArg {
			if strings.HasPrefix(c.name, name) {
				out = append(out, suggestion{text: strings.TrimSpace(c.name + " " + c.usage), help: c.help})
			}
			continue
		}
		if c.name != name {
			continue
		}
		values := p.args[c.name]
		if len(values) == 0 && c.usage != "" {
			out = append(out, suggestion{text: c.name + " " + c.usage, help: c.help})
		}
		for _, v := range values {
			if strings.HasPrefix(strings.ToLower(v), arg) {
				out = append(out, suggestion{text: c.name + " " + v})
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
