package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"neurofade/internal/modules/permission/domain"
	permissionout "neurofade/internal/modules/permission/port/out"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
	"neurofade/internal/platform/logging"
)

// Gate tracks the authorization state of each capability. Provider calls run
// outside the lock; their results are applied under it, so a request always
// resolves even when the caller has gone away.
type Gate struct {
	clock         clock.Clock
	authorizers   map[domain.Capability]permissionout.Authorizer
	notifications permissionout.NotificationAuthorizer
	log           *zap.Logger

	mu                    sync.Mutex
	states                map[domain.Capability]domain.State
	notificationRequested bool
	listeners             map[int]func(domain.State)
	nextListener          int
	background            sync.WaitGroup
}

func NewGate(clk clock.Clock, authorizers map[domain.Capability]permissionout.Authorizer, notifications permissionout.NotificationAuthorizer, log *zap.Logger) *Gate {
	states := make(map[domain.Capability]domain.State, len(authorizers))
	for c := range authorizers {
		states[c] = domain.State{Capability: c, Status: domain.StatusUnknown}
	}
	return &Gate{
		clock:         clk,
		authorizers:   authorizers,
		notifications: notifications,
		log:           logging.OrNop(log),
		states:        states,
		listeners:     map[int]func(domain.State){},
	}
}

// RequestAuthorization runs the capability's grant dialog and records the
// outcome. Provider failures become a denial with a message; only an
// unconfigured capability is returned as an error.
func (g *Gate) RequestAuthorization(ctx context.Context, capability domain.Capability) (domain.State, error) {
	authorizer, ok := g.authorizers[capability]
	if !ok {
		if _, err := domain.ParseCapability(string(capability)); err != nil {
			return domain.State{}, err
		}
		return domain.State{}, fmt.Errorf("%w: no provider for capability %q", apperrors.ErrInvalidInput, capability)
	}

	g.mu.Lock()
	current := g.states[capability]
	if current.Status == domain.StatusRequesting {
		g.mu.Unlock()
		return current, nil
	}
	requesting := g.setLocked(capability, domain.StatusRequesting, "")
	listeners := g.listenersLocked()
	g.mu.Unlock()
	notify(listeners, requesting)

	granted, err := authorizer.RequestAuthorization(context.WithoutCancel(ctx))

	g.mu.Lock()
	var resolved domain.State
	switch {
	case err != nil:
		g.log.Warn("authorization request failed", zap.String("capability", string(capability)), zap.Error(err))
		resolved = g.setLocked(capability, domain.StatusDenied, err.Error())
	case granted:
		resolved = g.setLocked(capability, domain.StatusAuthorized, "")
	default:
		resolved = g.setLocked(capability, domain.StatusDenied, "authorization was not granted")
	}
	firstGrant := capability == domain.CapabilityRestriction && resolved.Authorized() && !g.notificationRequested
	if firstGrant {
		g.notificationRequested = true
	}
	listeners = g.listenersLocked()
	g.mu.Unlock()
	notify(listeners, resolved)

	if firstGrant && g.notifications != nil {
		g.background.Add(1)
		go g.requestNotifications(context.WithoutCancel(ctx))
	}
	return resolved, nil
}

// CurrentStatus reports the last known state without contacting any provider.
func (g *Gate) CurrentStatus(capability domain.Capability) domain.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if st, ok := g.states[capability]; ok {
		return st
	}
	return domain.State{Capability: capability, Status: domain.StatusUnknown}
}

func (g *Gate) States() []domain.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.State, 0, len(g.states))
	for _, st := range g.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Capability < out[j].Capability })
	return out
}

// Sync refreshes capabilities whose provider can report its grant without a
// dialog. A capability with a request in flight is left alone, and a failed
// report keeps the previous status.
func (g *Gate) Sync(ctx context.Context) {
	for capability, authorizer := range g.authorizers {
		reporter, ok := authorizer.(permissionout.StatusReporter)
		if !ok {
			continue
		}
		if g.CurrentStatus(capability).Status == domain.StatusRequesting {
			continue
		}
		granted, err := reporter.AuthorizationStatus(ctx)
		if err != nil {
			g.log.Warn("authorization status unavailable", zap.String("capability", string(capability)), zap.Error(err))
			continue
		}

		g.mu.Lock()
		current := g.states[capability]
		if current.Status == domain.StatusRequesting {
			g.mu.Unlock()
			continue
		}
		next := domain.StatusDenied
		if granted {
			next = domain.StatusAuthorized
		}
		if next == current.Status || (current.Status == domain.StatusUnknown && !granted) {
			g.mu.Unlock()
			continue
		}
		message := ""
		if !granted {
			message = "authorization was revoked"
		}
		st := g.setLocked(capability, next, message)
		listeners := g.listenersLocked()
		g.mu.Unlock()
		notify(listeners, st)
	}
}

// Watch registers fn to be called after every status change. The returned
// func removes it.
func (g *Gate) Watch(fn func(domain.State)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextListener
	g.nextListener++
	g.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			delete(g.listeners, id)
		})
	}
}

// Wait blocks until background notification requests have finished.
func (g *Gate) Wait() {
	g.background.Wait()
}

func (g *Gate) requestNotifications(ctx context.Context) {
	defer g.background.Done()
	granted, err := g.notifications.RequestNotificationAuthorization(ctx)
	if err != nil {
		g.log.Warn("notification authorization failed", zap.Error(err))
		return
	}
	g.log.Info("notification authorization resolved", zap.Bool("granted", granted))
}

func (g *Gate) setLocked(capability domain.Capability, status domain.Status, message string) domain.State {
	st := domain.State{Capability: capability, Status: status, Message: message, UpdatedAt: g.clock.Now()}
	g.states[capability] = st
	return st
}

func (g *Gate) listenersLocked() []func(domain.State) {
	out := make([]func(domain.State), 0, len(g.listeners))
	ids := make([]int, 0, len(g.listeners))
	for id := range g.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		out = append(out, g.listeners[id])
	}
	return out
}

func notify(listeners []func(domain.State), st domain.State) {
	for _, fn := range listeners {
		fn(st)
	}
}
