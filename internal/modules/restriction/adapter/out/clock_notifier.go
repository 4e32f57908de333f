package out

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"neurofade/internal/modules/restriction/domain"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
	"neurofade/internal/platform/id"
	"neurofade/internal/platform/logging"
)

// ClockNotifier delivers one-shot notices to sink when their delay elapses on
// the injected clock.
type ClockNotifier struct {
	clock clock.Clock
	ids   id.Generator
	sink  io.Writer
	log   *zap.Logger

	mu        sync.Mutex
	pending   map[string]*clock.Timer
	delivered []domain.Notice
}

func NewClockNotifier(clk clock.Clock, ids id.Generator, sink io.Writer, log *zap.Logger) *ClockNotifier {
	return &ClockNotifier{
		clock:   clk,
		ids:     ids,
		sink:    sink,
		log:     logging.OrNop(log),
		pending: map[string]*clock.Timer{},
	}
}

func (n *ClockNotifier) ScheduleOneShot(_ context.Context, delay time.Duration, title, body string) (string, error) {
	if delay < 0 {
		return "", fmt.Errorf("%w: notice delay must not be negative", apperrors.ErrInvalidInput)
	}
	notice := domain.Notice{ID: n.ids.New(), Title: title, Body: body, DueAt: n.clock.Now().Add(delay)}

	n.mu.Lock()
	n.pending[notice.ID] = nil
	n.mu.Unlock()

	// A zero delay is delivered before ScheduleOneShot returns on any clock.
	if delay == 0 {
		n.deliver(notice)
		return notice.ID, nil
	}
	timer := n.clock.AfterFunc(delay, func() { n.deliver(notice) })

	n.mu.Lock()
	if _, ok := n.pending[notice.ID]; ok {
		n.pending[notice.ID] = timer
	}
	n.mu.Unlock()
	return notice.ID, nil
}

func (n *ClockNotifier) Cancel(_ context.Context, id string) error {
	n.mu.Lock()
	timer, ok := n.pending[id]
	delete(n.pending, id)
	n.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: notice %s", apperrors.ErrNotFound, id)
	}
	timer.Stop()
	n.log.Debug("notice withdrawn", zap.String("id", id))
	return nil
}

func (n *ClockNotifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

func (n *ClockNotifier) Delivered() []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notice(nil), n.delivered...)
}

func (n *ClockNotifier) deliver(notice domain.Notice) {
	n.mu.Lock()
	if _, ok := n.pending[notice.ID]; !ok {
		n.mu.Unlock()
		return
	}
	delete(n.pending, notice.ID)
	n.delivered = append(n.delivered, notice)
	n.mu.Unlock()

	if n.sink != nil {
		if _, err := fmt.Fprintf(n.sink, "%s: %s\n", notice.Title, notice.Body); err != nil {
			n.log.Warn("notice delivery failed", zap.String("id", notice.ID), zap.Error(err))
			return
		}
	}
	n.log.Info("notice delivered", zap.String("id", notice.ID), zap.String("title", notice.Title))
}
