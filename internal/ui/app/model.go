package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	blocklistdto "neurofade/internal/modules/blocklist/dto"
	focusdto "neurofade/internal/modules/focus/dto"
	permissiondto "neurofade/internal/modules/permission/dto"
	rewarddto "neurofade/internal/modules/reward/dto"
	signaldto "neurofade/internal/modules/signal/dto"
	"neurofade/internal/platform/config"
	apperrors "neurofade/internal/platform/errors"
	"neurofade/internal/ui/components"
	"neurofade/internal/ui/theme"
	blocklistview "neurofade/internal/ui/views/blocklist"
	focusview "neurofade/internal/ui/views/focus"
	leaderboardview "neurofade/internal/ui/views/leaderboard"
	signalview "neurofade/internal/ui/views/signal"
)

const restrictionCapability = "restriction"

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type focusPort interface {
	Start(ctx context.Context, duration time.Duration, blockList []string) (focusdto.SessionOutput, error)
	Stop(ctx context.Context) (focusdto.SessionOutput, error)
	Status(ctx context.Context) (focusdto.SessionOutput, error)
	Events(ctx context.Context) (<-chan focusdto.EventOutput, func(), error)
	Presets(ctx context.Context) ([]focusdto.PresetOutput, error)
}

type permissionPort interface {
	Request(ctx context.Context, capability string) (permissiondto.StateOutput, error)
	Status(ctx context.Context) ([]permissiondto.StateOutput, error)
}

type signalPort interface {
	Observe(ctx context.Context) (<-chan signaldto.ObservationOutput, func(), error)
}

type rewardPort interface {
	Leaderboard(ctx context.Context) (rewarddto.LeaderboardOutput, error)
}

type blocklistPort interface {
	Catalog(ctx context.Context) ([]blocklistdto.AppOutput, error)
	Add(ctx context.Context, app string) (blocklistdto.BlockListOutput, error)
	Remove(ctx context.Context, app string) (blocklistdto.BlockListOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabFocus tabID = iota
	tabSignal
	tabLeaderboard
	tabBlockList
	tabCount
)

var tabLabels = [tabCount]string{
	"Focus", "Signal", "Leaderboard", "Block list",
}

// ─── async messages ───────────────────────────────────────────────────────────

type eventsOpenedMsg struct {
	stream <-chan focusdto.EventOutput
	stop   func()
	err    error
}

type focusEventMsg struct{ event focusdto.EventOutput }

type permissionsLoadedMsg struct {
	states []permissiondto.StateOutput
	err    error
}

type permissionResultMsg struct {
	state permissiondto.StateOutput
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab        key.Binding
	Start      key.Binding
	Stop       key.Binding
	Preset     key.Binding
	Permission key.Binding
	Toggle     key.Binding
	Help       key.Binding
	Palette    key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:        key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next tab")),
		Start:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Stop:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop session")),
		Preset:     key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "duration")),
		Permission: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "allow blocking")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle app")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Preset},
		{k.Permission, k.Toggle, k.Tab},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the focus event
// stream, permission state, the help overlay and the command palette. All
// business logic is delegated to ports; rendering is delegated to sub-views.
type Model struct {
	ctx context.Context
	cfg config.Config

	focus      focusPort
	permission permissionPort
	blocklist  blocklistPort

	focusView       focusview.Model
	signalView      signalview.Model
	leaderboardView leaderboardview.Model
	blockView       blocklistview.Model

	events     <-chan focusdto.EventOutput
	stopEvents func()

	permissions map[string]permissiondto.StateOutput
	activeTab   tabID
	keys        keyMap
	help        help.Model
	showHelp    bool
	palette     components.Palette
	status      string
	width       int
	height      int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	ctx context.Context,
	cfg config.Config,
	focus focusPort,
	permission permissionPort,
	signal signalPort,
	reward rewardPort,
	blocklist blocklistPort,
) Model {
	m := Model{
		ctx:             ctx,
		cfg:             cfg,
		focus:           focus,
		permission:      permission,
		blocklist:       blocklist,
		focusView:       focusview.New(ctx, focus, cfg.Focus.DefaultDuration),
		signalView:      signalview.New(ctx, signal),
		leaderboardView: leaderboardview.New(ctx, reward),
		blockView:       blocklistview.New(ctx, blocklist),
		permissions:     map[string]permissiondto.StateOutput{},
		activeTab:       tabFocus,
		keys:            defaultKeys(),
		help:            help.New(),
		palette:         components.NewPalette(),
		status:          "ready",
	}
	m.palette.SetArguments("permission:request", []string{restrictionCapability, "health"})
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.focusView.Init(),
		m.signalView.Init(),
		m.leaderboardView.Init(),
		m.blockView.Init(),
		m.openEventsCmd(),
		m.loadPermissionsCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts keys while open; streams keep flowing.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		content := tea.WindowSizeMsg{Width: msg.Width, Height: max(1, msg.Height-4)}
		m.focusView, _ = m.focusView.Update(content)
		m.signalView, _ = m.signalView.Update(content)
		m.leaderboardView, _ = m.leaderboardView.Update(content)
		m.blockView, _ = m.blockView.Update(content)
		return m, nil

	case eventsOpenedMsg:
		if msg.err != nil {
			m.status = "focus events: " + msg.err.Error()
			return m, nil
		}
		m.events, m.stopEvents = msg.stream, msg.stop
		return m, m.waitEventCmd()

	case focusEventMsg:
		cmds = append(cmds, m.applyEvent(msg.event), m.waitEventCmd())
		return m, tea.Batch(cmds...)

	case focusview.SessionMsg:
		m.focusView, _ = m.focusView.Update(msg)
		m.blockView.SetLocked(m.focusView.Running())
		switch {
		case msg.Err != nil:
			m.status = describeFocusError(msg.Action, msg.Err)
		case msg.Action == "start":
			m.status = "focusing for " + msg.Session.Countdown
		case msg.Action == "stop":
			m.status = "session stopped"
		}
		return m, nil

	case permissionsLoadedMsg:
		if msg.err != nil {
			m.status = "permissions: " + msg.err.Error()
			return m, nil
		}
		for _, s := range msg.states {
			m.permissions[s.Capability] = s
		}
		return m, nil

	case permissionResultMsg:
		if msg.err != nil {
			m.status = "permission: " + msg.err.Error()
		} else {
			m.permissions[msg.state.Capability] = msg.state
			m.status = msg.state.Capability + " " + msg.state.Status
			if msg.state.Message != "" {
				m.status += ": " + msg.state.Message
			}
		}
		return m, nil

	case blocklistview.ToggledMsg:
		if msg.Err == nil {
			m.status = "block list: " + strings.Join(msg.Out.Apps, ", ")
		}

	case blocklistview.CatalogLoadedMsg:
		if msg.Err == nil {
			m.offerApps(msg.Apps)
		}

	case focusview.PresetsLoadedMsg:
		if msg.Err == nil {
			minutes := make([]string, 0, len(msg.Presets))
			for _, p := range msg.Presets {
				minutes = append(minutes, strconv.Itoa(int(p.Duration/time.Minute)))
			}
			m.palette.SetArguments("focus:start", minutes)
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.shutdown()
			return m, tea.Quit
		case "tab":
			m.switchTab((m.activeTab + 1) % tabCount)
			return m, nil
		case "shift+tab":
			m.switchTab((m.activeTab + tabCount - 1) % tabCount)
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "s":
			return m, m.focusView.StartCmd()
		case "x":
			return m, m.focusView.StopCmd()
		case "p":
			return m, m.requestPermissionCmd(restrictionCapability)
		case "enter":
			if m.activeTab == tabFocus && !m.focusView.Running() {
				return m, m.focusView.StartCmd()
			}
		}

		// Keys that reach here belong to the active tab only.
		return m.updateActiveTab(msg)
	}

	var cmd tea.Cmd
	m.focusView, cmd = m.focusView.Update(msg)
	cmds = append(cmds, cmd)
	m.signalView, cmd = m.signalView.Update(msg)
	cmds = append(cmds, cmd)
	m.leaderboardView, cmd = m.leaderboardView.Update(msg)
	cmds = append(cmds, cmd)
	m.blockView, cmd = m.blockView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateActiveTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabFocus:
		m.focusView, cmd = m.focusView.Update(msg)
	case tabSignal:
		m.signalView, cmd = m.signalView.Update(msg)
	case tabLeaderboard:
		m.leaderboardView, cmd = m.leaderboardView.Update(msg)
	case tabBlockList:
		m.blockView, cmd = m.blockView.Update(msg)
	}
	return m, cmd
}

func (m *Model) applyEvent(ev focusdto.EventOutput) tea.Cmd {
	m.focusView.SetSession(ev.Session)
	m.blockView.SetLocked(m.focusView.Running())
	switch ev.Kind {
	case "started":
		m.status = "session started"
	case "rewarded":
		m.status = fmt.Sprintf("+1 coin (%d total)", ev.Coins)
		return m.leaderboardView.Refresh()
	case "completed":
		m.status = fmt.Sprintf("session complete, %d coins earned", ev.Session.Coins)
		return m.leaderboardView.Refresh()
	case "cancelled":
		m.status = "session cancelled: " + ev.Session.Reason
		return m.loadPermissionsCmd()
	case "warning":
		m.status = "warning: " + ev.Message
	}
	return nil
}

// offerApps completes block:add with the apps not yet blocked and
// block:remove with the ones that are.
func (m *Model) offerApps(apps []blocklistdto.AppOutput) {
	var blocked, open []string
	for _, a := range apps {
		if a.Selected {
			blocked = append(blocked, a.ID)
		} else {
			open = append(open, a.ID)
		}
	}
	m.palette.SetArguments("block:add", open)
	m.palette.SetArguments("block:remove", blocked)
}

func (m *Model) switchTab(tab tabID) {
	m.activeTab = tab
	m.leaderboardView.Focus(tab == tabLeaderboard)
}

func (m *Model) shutdown() {
	if m.stopEvents != nil {
		m.stopEvents()
	}
	m.signalView.Close()
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabFocus:
		return m.focusView.View()
	case tabSignal:
		return m.signalView.View()
	case tabLeaderboard:
		return m.leaderboardView.View()
	case tabBlockList:
		return m.blockView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "neurofade  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if label := m.signalView.Label(); label != "" {
		left = theme.Title.Render(label) + "  " + left
	}
	if m.focusView.Running() {
		left = theme.Hot.Render("● "+m.focusView.Session().Countdown) + "  " + left
	}
	right := theme.Muted.Render("blocking: " + m.restrictionStatus() + "  ?:help  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) restrictionStatus() string {
	state, ok := m.permissions[restrictionCapability]
	if !ok {
		return "unknown"
	}
	return state.Status
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "focus:start":
		if len(parts) < 2 {
			return m, m.focusView.StartCmd()
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil || minutes < 0 {
			m.status = "usage: focus:start [minutes]"
			return m, nil
		}
		return m, m.startCmd(time.Duration(minutes) * time.Minute)
	case "focus:stop":
		return m, m.focusView.StopCmd()
	case "permission:request":
		capability := restrictionCapability
		if len(parts) > 1 {
			capability = parts[1]
		}
		return m, m.requestPermissionCmd(capability)
	case "block:add", "block:remove":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <app>"
			return m, nil
		}
		return m, m.toggleAppCmd(parts[0] == "block:add", parts[1])
	case "leaderboard:refresh":
		return m, m.leaderboardView.Refresh()
	}
	m.status = "unknown command: " + parts[0]
	return m, nil
}

// ─── commands ─────────────────────────────────────────────────────────────────

func (m Model) openEventsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.focus == nil {
			return eventsOpenedMsg{err: errors.New("focus service unavailable")}
		}
		stream, stop, err := m.focus.Events(m.ctx)
		return eventsOpenedMsg{stream: stream, stop: stop, err: err}
	}
}

func (m Model) waitEventCmd() tea.Cmd {
	stream, ctx := m.events, m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-stream:
			return focusEventMsg{event: ev}
		}
	}
}

func (m Model) startCmd(duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		s, err := m.focus.Start(m.ctx, duration, nil)
		return focusview.SessionMsg{Action: "start", Session: s, Err: err}
	}
}

func (m Model) loadPermissionsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.permission == nil {
			return permissionsLoadedMsg{}
		}
		states, err := m.permission.Status(m.ctx)
		return permissionsLoadedMsg{states: states, err: err}
	}
}

// requestPermissionCmd hands the terminal to the authorizer when it prompts
// on stdin, and runs the request in the background otherwise.
func (m Model) requestPermissionCmd(capability string) tea.Cmd {
	if m.permission == nil {
		return nil
	}
	req := &permissionRequest{ctx: m.ctx, port: m.permission, capability: capability}
	if m.cfg.Permissions.Mode == config.PermissionPrompt {
		return tea.Exec(req, func(err error) tea.Msg {
			return permissionResultMsg{state: req.state, err: err}
		})
	}
	return func() tea.Msg {
		err := req.Run()
		return permissionResultMsg{state: req.state, err: err}
	}
}

func (m Model) toggleAppCmd(add bool, app string) tea.Cmd {
	return func() tea.Msg {
		var out blocklistdto.BlockListOutput
		var err error
		if add {
			out, err = m.blocklist.Add(m.ctx, app)
		} else {
			out, err = m.blocklist.Remove(m.ctx, app)
		}
		return blocklistview.ToggledMsg{App: app, Out: out, Err: err}
	}
}

// permissionRequest adapts a permission request to tea.ExecCommand so an
// interactive prompt can own the terminal while it runs.
type permissionRequest struct {
	ctx        context.Context
	port       permissionPort
	capability string
	state      permissiondto.StateOutput
}

func (r *permissionRequest) Run() error {
	state, err := r.port.Request(r.ctx, r.capability)
	r.state = state
	return err
}

func (r *permissionRequest) SetStdin(io.Reader)  {}
func (r *permissionRequest) SetStdout(io.Writer) {}
func (r *permissionRequest) SetStderr(io.Writer) {}

func describeFocusError(action string, err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotAuthorized):
		return "blocking is not allowed yet, press p to grant access"
	case errors.Is(err, apperrors.ErrAlreadyRunning):
		return "a session is already running"
	case errors.Is(err, apperrors.ErrNotRunning):
		return "no session is running"
	}
	return action + " failed: " + err.Error()
}
