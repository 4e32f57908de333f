package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	blocklistdto "neurofade/internal/modules/blocklist/dto"
	focusdto "neurofade/internal/modules/focus/dto"
	permissiondto "neurofade/internal/modules/permission/dto"
	rewarddto "neurofade/internal/modules/reward/dto"
	signaldto "neurofade/internal/modules/signal/dto"
	"neurofade/internal/platform/config"
	apperrors "neurofade/internal/platform/errors"
	"neurofade/internal/ui/components"
	blocklistview "neurofade/internal/ui/views/blocklist"
	focusview "neurofade/internal/ui/views/focus"
)

type fakeFocus struct {
	startErr  error
	started   []time.Duration
	stopCalls int
}

func (f *fakeFocus) Start(_ context.Context, d time.Duration, _ []string) (focusdto.SessionOutput, error) {
	if f.startErr != nil {
		return focusdto.SessionOutput{}, f.startErr
	}
	f.started = append(f.started, d)
	return focusdto.SessionOutput{State: "running", Duration: d, Remaining: d, Countdown: "25:00"}, nil
}

func (f *fakeFocus) Stop(context.Context) (focusdto.SessionOutput, error) {
	f.stopCalls++
	return focusdto.SessionOutput{State: "cancelled", Countdown: "25:00"}, nil
}

func (f *fakeFocus) Status(context.Context) (focusdto.SessionOutput, error) {
	return focusdto.SessionOutput{State: "idle", Countdown: "25:00"}, nil
}

func (f *fakeFocus) Events(context.Context) (<-chan focusdto.EventOutput, func(), error) {
	return make(chan focusdto.EventOutput), func() {}, nil
}

func (f *fakeFocus) Presets(context.Context) ([]focusdto.PresetOutput, error) {
	return []focusdto.PresetOutput{{Label: "25 minutes", Duration: 25 * time.Minute, Countdown: "25:00"}}, nil
}

type fakePermission struct{ requested []string }

func (f *fakePermission) Request(_ context.Context, capability string) (permissiondto.StateOutput, error) {
	f.requested = append(f.requested, capability)
	return permissiondto.StateOutput{Capability: capability, Status: "authorized"}, nil
}

func (f *fakePermission) Status(context.Context) ([]permissiondto.StateOutput, error) {
	return []permissiondto.StateOutput{{Capability: "restriction", Status: "unknown"}}, nil
}

type fakeSignal struct{}

func (fakeSignal) Observe(context.Context) (<-chan signaldto.ObservationOutput, func(), error) {
	return make(chan signaldto.ObservationOutput), func() {}, nil
}

type fakeReward struct{}

func (fakeReward) Leaderboard(context.Context) (rewarddto.LeaderboardOutput, error) {
	return rewarddto.LeaderboardOutput{Rank: 10}, nil
}

type fakeBlockList struct{ added, removed []string }

func (f *fakeBlockList) Catalog(context.Context) ([]blocklistdto.AppOutput, error) {
	return []blocklistdto.AppOutput{{ID: "instagram", Name: "Instagram", Selected: true}}, nil
}

func (f *fakeBlockList) Add(_ context.Context, app string) (blocklistdto.BlockListOutput, error) {
	f.added = append(f.added, app)
	return blocklistdto.BlockListOutput{Apps: []string{"instagram", app}}, nil
}

func (f *fakeBlockList) Remove(_ context.Context, app string) (blocklistdto.BlockListOutput, error) {
	f.removed = append(f.removed, app)
	return blocklistdto.BlockListOutput{}, nil
}

type fixture struct {
	model      Model
	focus      *fakeFocus
	permission *fakePermission
	blocklist  *fakeBlockList
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Permissions.Mode = config.PermissionGrant
	f := &fixture{focus: &fakeFocus{}, permission: &fakePermission{}, blocklist: &fakeBlockList{}}
	f.model = NewModel(context.Background(), cfg, f.focus, f.permission, fakeSignal{}, fakeReward{}, f.blocklist)
	return f
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartKeyStartsSessionWithSelectedPreset(t *testing.T) {
	f := newFixture(t)
	cmd := f.send(t, keyPress("s"))
	if cmd == nil {
		t.Fatalf("expected start command")
	}
	f.send(t, cmd())

	if len(f.focus.started) != 1 || f.focus.started[0] != 25*time.Minute {
		t.Fatalf("started = %v, want [25m]", f.focus.started)
	}
	if !f.model.focusView.Running() {
		t.Fatalf("focus view should show a running session")
	}
	if f.model.status != "focusing for 25:00" {
		t.Fatalf("status = %q", f.model.status)
	}
}

func TestStartWithoutPermissionExplainsHowToGrant(t *testing.T) {
	f := newFixture(t)
	f.focus.startErr = apperrors.ErrNotAuthorized
	cmd := f.send(t, keyPress("s"))
	f.send(t, cmd())

	if !strings.Contains(f.model.status, "press p") {
		t.Fatalf("status = %q, want hint to press p", f.model.status)
	}
	if f.model.focusView.Running() {
		t.Fatalf("session must not appear running after a failed start")
	}
}

func TestPermissionKeyRequestsRestrictionCapability(t *testing.T) {
	f := newFixture(t)
	cmd := f.send(t, keyPress("p"))
	if cmd == nil {
		t.Fatalf("expected permission command")
	}
	f.send(t, cmd())

	if len(f.permission.requested) != 1 || f.permission.requested[0] != "restriction" {
		t.Fatalf("requested = %v", f.permission.requested)
	}
	if got := f.model.restrictionStatus(); got != "authorized" {
		t.Fatalf("restriction status = %q, want authorized", got)
	}
}

func TestFocusEventsUpdateStatusAndKeepListening(t *testing.T) {
	f := newFixture(t)
	stream := make(chan focusdto.EventOutput, 1)
	if cmd := f.send(t, eventsOpenedMsg{stream: stream, stop: func() {}}); cmd == nil {
		t.Fatalf("expected a wait command after the stream opens")
	}

	running := focusdto.SessionOutput{State: "running", Countdown: "24:00", Coins: 3}
	cmd := f.send(t, focusEventMsg{event: focusdto.EventOutput{Kind: "rewarded", Session: running, Coins: 3}})
	if cmd == nil {
		t.Fatalf("expected leaderboard refresh and next wait")
	}
	if f.model.status != "+1 coin (3 total)" {
		t.Fatalf("status = %q", f.model.status)
	}
	if got := f.model.focusView.Session().Countdown; got != "24:00" {
		t.Fatalf("countdown = %q, want 24:00", got)
	}

	cancelled := focusdto.SessionOutput{State: "cancelled", Reason: "permission revoked"}
	f.send(t, focusEventMsg{event: focusdto.EventOutput{Kind: "cancelled", Session: cancelled}})
	if f.model.status != "session cancelled: permission revoked" {
		t.Fatalf("status = %q", f.model.status)
	}
}

func TestOpenPaletteDoesNotSwallowEvents(t *testing.T) {
	f := newFixture(t)
	f.send(t, keyPress(":"))
	if !f.model.palette.Visible() {
		t.Fatalf("palette should be open")
	}
	f.send(t, focusEventMsg{event: focusdto.EventOutput{Kind: "warning", Message: "restriction failed"}})
	if f.model.status != "warning: restriction failed" {
		t.Fatalf("status = %q", f.model.status)
	}
}

func TestPaletteCompletesFromLoadedData(t *testing.T) {
	f := newFixture(t)
	f.send(t, blocklistview.CatalogLoadedMsg{Apps: []blocklistdto.AppOutput{
		{ID: "tiktok", Name: "TikTok", Selected: true},
		{ID: "twitter", Name: "Twitter"},
	}})
	f.send(t, focusview.PresetsLoadedMsg{Presets: []focusdto.PresetOutput{{Label: "45 minutes", Duration: 45 * time.Minute}}})

	f.send(t, keyPress(":"))
	for _, r := range "block:add t" {
		f.send(t, keyPress(string(r)))
	}
	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	if msg, ok := cmd().(components.PaletteSubmitMsg); !ok || msg.Input != "block:add twitter" {
		t.Fatalf("submit msg = %#v", cmd())
	}

	f.send(t, keyPress(":"))
	for _, r := range "focus:start " {
		f.send(t, keyPress(string(r)))
	}
	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	cmd = f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	if msg, ok := cmd().(components.PaletteSubmitMsg); !ok || msg.Input != "focus:start 45" {
		t.Fatalf("submit msg = %#v", cmd())
	}
}

func TestExecutePalette(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		check  func(t *testing.T, f *fixture)
		status string
	}{
		{
			name:  "start with minutes",
			input: "focus:start 45",
			check: func(t *testing.T, f *fixture) {
				if len(f.focus.started) != 1 || f.focus.started[0] != 45*time.Minute {
					t.Fatalf("started = %v, want [45m]", f.focus.started)
				}
			},
		},
		{
			name:  "stop",
			input: "focus:stop",
			check: func(t *testing.T, f *fixture) {
				if f.focus.stopCalls != 1 {
					t.Fatalf("stop calls = %d", f.focus.stopCalls)
				}
			},
		},
		{
			name:  "add app",
			input: "block:add twitter",
			check: func(t *testing.T, f *fixture) {
				if len(f.blocklist.added) != 1 || f.blocklist.added[0] != "twitter" {
					t.Fatalf("added = %v", f.blocklist.added)
				}
			},
		},
		{name: "bad minutes", input: "focus:start soon", status: "usage: focus:start [minutes]"},
		{name: "missing app", input: "block:remove", status: "usage: block:remove <app>"},
		{name: "unknown", input: "reader:open", status: "unknown command: reader:open"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			next, cmd := f.model.executePalette(tc.input)
			f.model = next.(Model)
			if cmd != nil {
				if _, isSession := cmd().(focusview.SessionMsg); !isSession && tc.check == nil {
					t.Fatalf("unexpected command for %q", tc.input)
				}
			}
			if tc.check != nil {
				tc.check(t, f)
			}
			if tc.status != "" && f.model.status != tc.status {
				t.Fatalf("status = %q, want %q", f.model.status, tc.status)
			}
		})
	}
}

func TestQuitStopsStreams(t *testing.T) {
	f := newFixture(t)
	stopped := false
	f.send(t, eventsOpenedMsg{stream: make(chan focusdto.EventOutput), stop: func() { stopped = true }})
	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if !stopped {
		t.Fatalf("event stream was not stopped")
	}
}
