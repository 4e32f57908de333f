package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"neurofade/internal/modules/focus/domain"
	focusout "neurofade/internal/modules/focus/port/out"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
	"neurofade/internal/platform/id"
	"neurofade/internal/platform/logging"
)

const (
	eventBuffer      = 64
	reasonStopped    = "stopped"
	reasonPermission = "permission revoked"
	statusAuthorized = "authorized"
	statusRequesting = "requesting"
)

type Settings struct {
	DefaultDuration   time.Duration
	CountdownInterval time.Duration
	RewardInterval    time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		DefaultDuration:   domain.DefaultDuration,
		CountdownInterval: time.Second,
		RewardInterval:    time.Minute,
	}
}

// Controller runs one focus session at a time. State transitions and their
// side effects are serialized by op; mu guards the session view and the
// subscriber set. Timer callbacks carry the generation they were scheduled
// for and do nothing once it has moved on.
type Controller struct {
	clock       clock.Clock
	ids         id.Generator
	permissions focusout.PermissionChecker
	restrictor  focusout.Restrictor
	rewarder    focusout.Rewarder
	settings    Settings
	log         *zap.Logger

	op sync.Mutex

	mu         sync.Mutex
	session    domain.Session
	generation uint64
	ctx        context.Context
	countdown  *clock.Timer
	reward     *clock.Timer
	subs       map[int]chan domain.Event
	nextSub    int
	unwatch    func()
}

func NewController(clk clock.Clock, ids id.Generator, permissions focusout.PermissionChecker, restrictor focusout.Restrictor, rewarder focusout.Rewarder, settings Settings, log *zap.Logger) (*Controller, error) {
	if settings.CountdownInterval <= 0 || settings.RewardInterval <= 0 {
		return nil, fmt.Errorf("%w: focus intervals must be positive", apperrors.ErrInvalidInput)
	}
	if settings.DefaultDuration < 0 {
		return nil, fmt.Errorf("%w: default duration must not be negative", apperrors.ErrInvalidInput)
	}
	c := &Controller{
		clock:       clk,
		ids:         ids,
		permissions: permissions,
		restrictor:  restrictor,
		rewarder:    rewarder,
		settings:    settings,
		log:         logging.OrNop(log),
		session:     domain.Session{State: domain.StateIdle, Remaining: settings.DefaultDuration},
		ctx:         context.Background(),
		subs:        map[int]chan domain.Event{},
	}
	c.unwatch = permissions.WatchStatus(c.onPermissionChange)
	return c, nil
}

// Start begins a session that blocks the given apps for duration. A zero
// duration completes at once.
func (c *Controller) Start(ctx context.Context, duration time.Duration, blockList []string) (domain.Session, error) {
	if duration < 0 {
		return domain.Session{}, fmt.Errorf("%w: duration must not be negative", apperrors.ErrInvalidInput)
	}
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	if !c.session.State.Startable() {
		c.mu.Unlock()
		return domain.Session{}, apperrors.ErrAlreadyRunning
	}
	if !c.permissions.IsAuthorized(domain.RestrictionCapability) {
		c.mu.Unlock()
		return domain.Session{}, fmt.Errorf("%w: app restriction must be granted before a focus session", apperrors.ErrNotAuthorized)
	}
	blockList = domain.SnapshotBlockList(blockList)
	c.generation++
	gen := c.generation
	c.ctx = context.WithoutCancel(ctx)
	c.session = domain.Session{
		ID:        c.ids.New(),
		StartedAt: c.clock.Now(),
		Duration:  duration,
		Remaining: duration,
		State:     domain.StateRunning,
		BlockList: blockList,
	}
	if duration > 0 {
		c.countdown = c.clock.AfterFunc(c.settings.CountdownInterval, func() { c.countdownTick(gen) })
		c.reward = c.clock.AfterFunc(c.settings.RewardInterval, func() { c.rewardTick(gen) })
	}
	started := c.eventLocked(domain.EventStarted)
	c.mu.Unlock()

	c.log.Info("focus session started",
		zap.String("session", started.Session.ID),
		zap.Duration("duration", duration),
		zap.Strings("blocked", blockList))
	c.publish(started)

	if err := c.restrictor.Apply(c.ctx, slices.Clone(blockList), duration); err != nil {
		c.warn(gen, "apply restrictions", err)
	}
	if duration == 0 {
		c.finish(gen, domain.StateCompleted, "")
	}
	return c.Snapshot(), nil
}

// Stop cancels the running session and resets the countdown to the default
// duration.
func (c *Controller) Stop(_ context.Context) (domain.Session, error) {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	if c.session.State != domain.StateRunning {
		c.mu.Unlock()
		return domain.Session{}, apperrors.ErrNotRunning
	}
	gen := c.generation
	c.mu.Unlock()

	c.finish(gen, domain.StateCancelled, reasonStopped)
	return c.Snapshot(), nil
}

func (c *Controller) Snapshot() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Clone()
}

func (c *Controller) Settings() Settings {
	return c.settings
}

// Subscribe returns a channel of session events and a func that detaches it.
// Events are dropped for subscribers that fall behind.
func (c *Controller) Subscribe() (<-chan domain.Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.nextSub
	c.nextSub++
	ch := make(chan domain.Event, eventBuffer)
	c.subs[key] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, key)
		})
	}
}

// Close stops watching permissions and cancels a running session.
func (c *Controller) Close(ctx context.Context) error {
	if c.unwatch != nil {
		c.unwatch()
	}
	if _, err := c.Stop(ctx); err != nil && !errors.Is(err, apperrors.ErrNotRunning) {
		return err
	}
	return nil
}

func (c *Controller) countdownTick(gen uint64) {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	if !c.currentLocked(gen) {
		c.mu.Unlock()
		return
	}
	done := c.session.Tick(c.settings.CountdownInterval)
	tick := c.eventLocked(domain.EventTick)
	if !done {
		c.countdown = c.clock.AfterFunc(c.settings.CountdownInterval, func() { c.countdownTick(gen) })
	}
	c.mu.Unlock()

	c.publish(tick)
	if done {
		c.finish(gen, domain.StateCompleted, "")
	}
}

func (c *Controller) rewardTick(gen uint64) {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	if !c.currentLocked(gen) {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	c.mu.Unlock()

	total, err := c.rewarder.Increment(ctx)
	if err != nil {
		c.warn(gen, "award coin", err)
	}

	c.mu.Lock()
	if !c.currentLocked(gen) {
		c.mu.Unlock()
		return
	}
	var rewarded domain.Event
	if err == nil {
		c.session.Coins++
		rewarded = c.eventLocked(domain.EventRewarded)
		rewarded.Coins = total
	}
	c.reward = c.clock.AfterFunc(c.settings.RewardInterval, func() { c.rewardTick(gen) })
	c.mu.Unlock()

	if err == nil {
		c.publish(rewarded)
	}
}

// finish leaves the running state. It must be called with op held; the
// generation check makes a second call for the same session a no-op, so
// restrictions are released exactly once.
func (c *Controller) finish(gen uint64, state domain.State, reason string) {
	c.mu.Lock()
	if !c.currentLocked(gen) {
		c.mu.Unlock()
		return
	}
	c.countdown.Stop()
	c.reward.Stop()
	c.countdown, c.reward = nil, nil
	c.session.State = state
	c.session.EndedAt = c.clock.Now()
	c.session.Reason = reason
	if state == domain.StateCancelled {
		c.session.Remaining = c.settings.DefaultDuration
	}
	ctx := c.ctx
	sessionID := c.session.ID
	c.mu.Unlock()

	if err := c.restrictor.Release(ctx); err != nil {
		c.warn(gen, "release restrictions", err)
	}
	if state == domain.StateCancelled {
		if err := c.restrictor.WithdrawNotice(ctx); err != nil {
			c.warn(gen, "withdraw completion notice", err)
		}
	}

	kind := domain.EventCompleted
	if state == domain.StateCancelled {
		kind = domain.EventCancelled
	}
	c.mu.Lock()
	ev := c.eventLocked(kind)
	ev.Message = reason
	c.mu.Unlock()

	c.log.Info("focus session ended", zap.String("session", sessionID), zap.String("state", string(state)), zap.String("reason", reason))
	c.publish(ev)
}

func (c *Controller) onPermissionChange(capability, status string) {
	if capability != domain.RestrictionCapability || status == statusAuthorized || status == statusRequesting {
		return
	}
	c.op.Lock()
	defer c.op.Unlock()
	c.mu.Lock()
	running := c.session.State == domain.StateRunning
	gen := c.generation
	c.mu.Unlock()
	if !running {
		return
	}
	c.log.Warn("restriction permission lost during session", zap.String("status", status))
	c.finish(gen, domain.StateCancelled, reasonPermission)
}

func (c *Controller) currentLocked(gen uint64) bool {
	return gen == c.generation && c.session.State == domain.StateRunning
}

// warn records a side-effect failure on the session of generation gen
// without changing its state.
func (c *Controller) warn(gen uint64, op string, err error) {
	message := fmt.Sprintf("%s: %v", op, err)
	c.log.Warn("focus session side effect failed", zap.String("op", op), zap.Error(err))
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.session.Message = message
	ev := c.eventLocked(domain.EventWarning)
	ev.Message = message
	c.mu.Unlock()
	c.publish(ev)
}

func (c *Controller) eventLocked(kind domain.EventKind) domain.Event {
	return domain.Event{Kind: kind, At: c.clock.Now(), Session: c.session.Clone()}
}

func (c *Controller) publish(ev domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
