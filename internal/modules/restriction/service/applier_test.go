package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"neurofade/internal/modules/restriction/domain"
	"neurofade/internal/modules/restriction/service"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeProvider struct {
	configs []domain.Configuration
	err     error
}

func (f *fakeProvider) SetConfiguration(_ context.Context, cfg domain.Configuration) error {
	if f.err != nil {
		return f.err
	}
	f.configs = append(f.configs, cfg)
	return nil
}

type scheduled struct {
	delay       time.Duration
	title, body string
}

type fakeNotifier struct {
	scheduled   []scheduled
	cancelled   []string
	scheduleErr error
	cancelErr   error
}

func (f *fakeNotifier) ScheduleOneShot(_ context.Context, delay time.Duration, title, body string) (string, error) {
	if f.scheduleErr != nil {
		return "", f.scheduleErr
	}
	f.scheduled = append(f.scheduled, scheduled{delay: delay, title: title, body: body})
	return "notice-1", nil
}

func (f *fakeNotifier) Cancel(_ context.Context, id string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type permissions bool

func (p permissions) IsAuthorized(capability string) bool {
	return bool(p) && capability == "restriction"
}

type checkerFunc func(string) bool

func (f checkerFunc) IsAuthorized(capability string) bool { return f(capability) }

var notice = service.NoticeText{
	Title: "Focus Session Complete",
	Body:  "Your focus session has ended. App restrictions have been removed.",
}

func newApplier(p *fakeProvider, n *fakeNotifier, granted bool) *service.Applier {
	return service.NewApplier(clock.NewFake(epoch), p, n, permissions(granted), notice, nil)
}

func TestApplySetsScheduleAndSchedulesOneNotice(t *testing.T) {
	t.Parallel()
	p, n := &fakeProvider{}, &fakeNotifier{}
	a := newApplier(p, n, true)

	if err := a.Apply(context.Background(), []string{"instagram", "tiktok"}, 25*time.Minute); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(p.configs) != 1 {
		t.Fatalf("expected one configuration, got %d", len(p.configs))
	}
	cfg := p.configs[0]
	if !cfg.Schedule.Start.Equal(epoch) || !cfg.Schedule.End.Equal(epoch.Add(25*time.Minute)) {
		t.Fatalf("unexpected schedule %+v", cfg.Schedule)
	}
	if len(cfg.Blocked) != 2 || cfg.Blocked[0] != "instagram" {
		t.Fatalf("unexpected blocked apps %v", cfg.Blocked)
	}
	if len(n.scheduled) != 1 {
		t.Fatalf("expected exactly one notice, got %d", len(n.scheduled))
	}
	got := n.scheduled[0]
	if got.delay != 25*time.Minute || got.title != notice.Title || got.body != notice.Body {
		t.Fatalf("unexpected notice %+v", got)
	}
	if a.LastError() != "" {
		t.Fatalf("unexpected last error %q", a.LastError())
	}
}

func TestApplyRequiresAuthorization(t *testing.T) {
	t.Parallel()
	p, n := &fakeProvider{}, &fakeNotifier{}
	a := newApplier(p, n, false)
	err := a.Apply(context.Background(), []string{"instagram"}, time.Minute)
	if !errors.Is(err, apperrors.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
	if len(p.configs) != 0 || len(n.scheduled) != 0 {
		t.Fatalf("provider must not be called without authorization")
	}
	if a.LastError() == "" {
		t.Fatalf("expected captured message")
	}
}

func TestApplyProviderFailure(t *testing.T) {
	t.Parallel()
	p, n := &fakeProvider{err: errors.New("store rejected shield")}, &fakeNotifier{}
	a := newApplier(p, n, true)
	err := a.Apply(context.Background(), []string{"instagram"}, time.Minute)

	var pe *apperrors.ProviderError
	if !errors.As(err, &pe) || !errors.Is(err, apperrors.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(n.scheduled) != 0 {
		t.Fatalf("notice must not be scheduled when the provider fails")
	}
	if !strings.Contains(a.LastError(), "store rejected shield") {
		t.Fatalf("unexpected last error %q", a.LastError())
	}
}

func TestApplyNoticeFailureStillSucceeds(t *testing.T) {
	t.Parallel()
	p, n := &fakeProvider{}, &fakeNotifier{scheduleErr: errors.New("notifications disabled")}
	a := newApplier(p, n, true)
	if err := a.Apply(context.Background(), []string{"instagram"}, time.Minute); err != nil {
		t.Fatalf("apply must succeed, got %v", err)
	}
	if !strings.Contains(a.LastError(), "notifications disabled") {
		t.Fatalf("expected captured notice failure, got %q", a.LastError())
	}
	if a.Current().Empty() {
		t.Fatalf("restrictions must remain applied")
	}
}

func TestApplyFailureIsLogged(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.WarnLevel)
	p, n := &fakeProvider{}, &fakeNotifier{scheduleErr: errors.New("notifications disabled")}
	a := service.NewApplier(clock.NewFake(epoch), p, n, permissions(true), notice, zap.New(core))
	if err := a.Apply(context.Background(), []string{"instagram"}, time.Minute); err != nil {
		t.Fatalf("apply: %v", err)
	}

	entries := logs.FilterMessage("restriction operation failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["error"]; !strings.Contains(got.(string), "notifications disabled") {
		t.Fatalf("logged error = %v", got)
	}
}

func TestReleaseClearsConfiguration(t *testing.T) {
	t.Parallel()
	p, n := &fakeProvider{}, &fakeNotifier{}
	a := newApplier(p, n, true)
	if err := a.Apply(context.Background(), []string{"youtube"}, time.Minute); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := a.Release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
	if len(p.configs) != 2 || !p.configs[1].Empty() {
		t.Fatalf("expected empty configuration, got %+v", p.configs)
	}
	if !a.Current().Empty() {
		t.Fatalf("current configuration must be cleared")
	}
}

func TestReleaseIgnoresRevokedPermission(t *testing.T) {
	t.Parallel()
	p, n := &fakeProvider{}, &fakeNotifier{}
	granted := true
	a := service.NewApplier(clock.NewFake(epoch), p, n, checkerFunc(func(string) bool { return granted }), notice, nil)
	if err := a.Apply(context.Background(), []string{"tiktok"}, time.Hour); err != nil {
		t.Fatalf("apply: %v", err)
	}

	granted = false
	if err := a.Release(context.Background()); err != nil {
		t.Fatalf("release after revocation: %v", err)
	}
	if len(p.configs) != 2 || !p.configs[1].Empty() {
		t.Fatalf("expected restrictions cleared, got %+v", p.configs)
	}
	if a.LastError() != "" {
		t.Fatalf("unexpected last error %q", a.LastError())
	}
}

func TestWithdrawNotice(t *testing.T) {
	t.Parallel()
	p, n := &fakeProvider{}, &fakeNotifier{}
	a := newApplier(p, n, true)

	if err := a.WithdrawNotice(context.Background()); err != nil {
		t.Fatalf("withdraw without notice: %v", err)
	}
	if len(n.cancelled) != 0 {
		t.Fatalf("nothing should be cancelled")
	}
	if err := a.Apply(context.Background(), []string{"youtube"}, time.Minute); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := a.WithdrawNotice(context.Background()); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if err := a.WithdrawNotice(context.Background()); err != nil {
		t.Fatalf("second withdraw: %v", err)
	}
	if len(n.cancelled) != 1 || n.cancelled[0] != "notice-1" {
		t.Fatalf("expected one cancellation, got %v", n.cancelled)
	}
}
