package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"neurofade/internal/modules/restriction/domain"
	restrictionout "neurofade/internal/modules/restriction/port/out"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
	"neurofade/internal/platform/logging"
)

// NoticeText is the completion notification scheduled by every Apply.
type NoticeText struct {
	Title string
	Body  string
}

// Applier pushes block lists to the restriction provider and schedules the
// completion notice. Operations are serialized; the last user-visible
// failure is kept for LastError.
type Applier struct {
	clock       clock.Clock
	provider    restrictionout.Provider
	notifier    restrictionout.Notifier
	permissions restrictionout.PermissionChecker
	notice      NoticeText
	log         *zap.Logger

	op sync.Mutex

	mu        sync.Mutex
	current   domain.Configuration
	pendingID string
	lastError string
}

func NewApplier(clk clock.Clock, provider restrictionout.Provider, notifier restrictionout.Notifier, permissions restrictionout.PermissionChecker, notice NoticeText, log *zap.Logger) *Applier {
	return &Applier{
		clock:       clk,
		provider:    provider,
		notifier:    notifier,
		permissions: permissions,
		notice:      notice,
		log:         logging.OrNop(log),
	}
}

// Apply blocks the given apps for duration starting now. A notice failure is
// recorded but does not fail the call.
func (a *Applier) Apply(ctx context.Context, blocked []string, duration time.Duration) error {
	a.op.Lock()
	defer a.op.Unlock()
	if err := a.checkAuthorized(); err != nil {
		return err
	}

	cfg := domain.NewConfiguration(a.clock.Now(), duration, blocked)
	if err := a.provider.SetConfiguration(ctx, cfg); err != nil {
		return a.fail(apperrors.NewProviderError("set configuration", err))
	}
	a.mu.Lock()
	a.current = cfg
	a.lastError = ""
	a.mu.Unlock()
	a.log.Info("restrictions applied", zap.Int("apps", len(cfg.Blocked)), zap.Time("until", cfg.Schedule.End))

	id, err := a.notifier.ScheduleOneShot(ctx, duration, a.notice.Title, a.notice.Body)
	if err != nil {
		a.fail(fmt.Errorf("schedule completion notice: %w", err))
		return nil
	}
	a.mu.Lock()
	a.pendingID = id
	a.mu.Unlock()
	return nil
}

// Release lifts every restriction. It is not gated: a session cancelled
// because the permission was revoked must still unblock its apps.
func (a *Applier) Release(ctx context.Context) error {
	a.op.Lock()
	defer a.op.Unlock()
	if err := a.provider.SetConfiguration(ctx, domain.Configuration{}); err != nil {
		return a.fail(apperrors.NewProviderError("clear configuration", err))
	}
	a.mu.Lock()
	a.current = domain.Configuration{}
	a.mu.Unlock()
	a.log.Info("restrictions released")
	return nil
}

// WithdrawNotice cancels the pending completion notice. Without one it does
// nothing.
func (a *Applier) WithdrawNotice(ctx context.Context) error {
	a.op.Lock()
	defer a.op.Unlock()
	a.mu.Lock()
	id := a.pendingID
	a.pendingID = ""
	a.mu.Unlock()
	if id == "" {
		return nil
	}
	if err := a.notifier.Cancel(ctx, id); err != nil {
		return a.fail(fmt.Errorf("withdraw completion notice: %w", err))
	}
	return nil
}

func (a *Applier) LastError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastError
}

func (a *Applier) Current() domain.Configuration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *Applier) checkAuthorized() error {
	if a.permissions.IsAuthorized(domain.CapabilityName) {
		return nil
	}
	return a.fail(fmt.Errorf("%w: app restriction has not been granted", apperrors.ErrNotAuthorized))
}

func (a *Applier) fail(err error) error {
	a.mu.Lock()
	a.lastError = err.Error()
	a.mu.Unlock()
	a.log.Warn("restriction operation failed", zap.Error(err))
	return err
}
