package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"neurofade/internal/modules/signal/domain"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
	"neurofade/internal/platform/logging"
)

const subscriberBuffer = 16

// Observer samples a Source on a fixed cadence while started and fans the
// observations out to subscribers. Slow subscribers miss observations; the
// cadence never blocks on them.
type Observer struct {
	clock    clock.Clock
	source   Source
	interval time.Duration
	log      *zap.Logger

	mu         sync.Mutex
	running    bool
	generation uint64
	ctx        context.Context
	timer      *clock.Timer
	subs       map[int]chan domain.Observation
	nextSub    int
}

func NewObserver(clk clock.Clock, source Source, interval time.Duration, log *zap.Logger) (*Observer, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: observer interval must be positive", apperrors.ErrInvalidInput)
	}
	return &Observer{
		clock:    clk,
		source:   source,
		interval: interval,
		log:      logging.OrNop(log),
		subs:     map[int]chan domain.Observation{},
	}, nil
}

// Start begins observing. Starting a running observer is a no-op.
func (o *Observer) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return
	}
	o.running = true
	o.generation++
	o.ctx = ctx
	o.scheduleLocked(o.generation)
	o.log.Debug("signal observing started", zap.Duration("interval", o.interval))
}

// Stop halts the cadence. Stopping a stopped observer is a no-op.
func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
}

func (o *Observer) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Subscribe returns a channel of observations and a func that detaches it.
func (o *Observer) Subscribe() (<-chan domain.Observation, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextSub
	o.nextSub++
	ch := make(chan domain.Observation, subscriberBuffer)
	o.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
		})
	}
}

func (o *Observer) stopLocked() {
	if !o.running {
		return
	}
	o.running = false
	o.timer.Stop()
	o.timer = nil
	o.log.Debug("signal observing stopped")
}

func (o *Observer) scheduleLocked(gen uint64) {
	o.timer = o.clock.AfterFunc(o.interval, func() { o.tick(gen) })
}

func (o *Observer) tick(gen uint64) {
	o.mu.Lock()
	if !o.running || gen != o.generation {
		o.mu.Unlock()
		return
	}
	ctx := o.ctx
	o.mu.Unlock()

	if ctx.Err() != nil {
		o.Stop()
		return
	}
	reading, err := o.source.Sample(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.running || gen != o.generation {
		return
	}
	if err != nil {
		o.log.Warn("signal sample failed", zap.Error(err))
	}
	obs := domain.Observation{Reading: reading, Err: err}
	for _, ch := range o.subs {
		select {
		case ch <- obs:
		default:
		}
	}
	o.scheduleLocked(gen)
}
