package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"neurofade/internal/modules/signal/domain"
	"neurofade/internal/modules/signal/service"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
)

type scriptedSource struct {
	errs  []error
	calls int
}

func (s *scriptedSource) Sample(context.Context) (domain.Reading, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return domain.Reading{}, s.errs[idx]
	}
	return domain.NewReading(epoch, 1.9, 0.3, 70), nil
}

func newObserver(t *testing.T, src service.Source) (*service.Observer, *clock.FakeClock) {
	t.Helper()
	clk := clock.NewFake(epoch)
	obs, err := service.NewObserver(clk, src, time.Second, nil)
	if err != nil {
		t.Fatalf("new observer: %v", err)
	}
	return obs, clk
}

func TestObserverSamplesOncePerInterval(t *testing.T) {
	t.Parallel()
	src := &scriptedSource{}
	obs, clk := newObserver(t, src)
	ch, unsubscribe := obs.Subscribe()
	defer unsubscribe()

	obs.Start(context.Background())
	clk.Advance(500 * time.Millisecond)
	if src.calls != 0 {
		t.Fatalf("expected no sample before the first interval, got %d", src.calls)
	}
	for i := 0; i < 3; i++ {
		clk.Advance(time.Second)
	}
	if src.calls != 3 {
		t.Fatalf("expected 3 samples, got %d", src.calls)
	}
	for i := 0; i < 3; i++ {
		got := <-ch
		if got.Err != nil || got.Reading.Label != domain.LabelCalm {
			t.Fatalf("unexpected observation %+v", got)
		}
	}
}

func TestObserverSurfacesFailureAndContinues(t *testing.T) {
	t.Parallel()
	failure := errors.Join(apperrors.ErrSignalUnavailable, errors.New("watch disconnected"))
	src := &scriptedSource{errs: []error{failure, nil}}
	obs, clk := newObserver(t, src)
	ch, unsubscribe := obs.Subscribe()
	defer unsubscribe()

	obs.Start(context.Background())
	clk.Advance(time.Second)
	clk.Advance(time.Second)

	first := <-ch
	if !errors.Is(first.Err, apperrors.ErrSignalUnavailable) {
		t.Fatalf("expected surfaced failure, got %+v", first)
	}
	second := <-ch
	if second.Err != nil {
		t.Fatalf("expected observing to continue after failure, got %v", second.Err)
	}
}

func TestObserverStopIsIdempotentAndHaltsCadence(t *testing.T) {
	t.Parallel()
	src := &scriptedSource{}
	obs, clk := newObserver(t, src)
	obs.Start(context.Background())
	obs.Start(context.Background())
	clk.Advance(time.Second)

	obs.Stop()
	obs.Stop()
	clk.Advance(5 * time.Second)
	if src.calls != 1 {
		t.Fatalf("expected cadence to halt after stop, got %d samples", src.calls)
	}
	if obs.Running() {
		t.Fatalf("observer must report stopped")
	}
	if clk.PendingCount() != 0 {
		t.Fatalf("expected no pending timers, got %d", clk.PendingCount())
	}
}

func TestObserverStopsWhenContextEnds(t *testing.T) {
	t.Parallel()
	src := &scriptedSource{}
	obs, clk := newObserver(t, src)
	ctx, cancel := context.WithCancel(context.Background())
	obs.Start(ctx)
	cancel()
	clk.Advance(time.Second)
	if obs.Running() || src.calls != 0 {
		t.Fatalf("expected observer to stop on cancelled context, running=%v calls=%d", obs.Running(), src.calls)
	}
}

func TestNewObserverRejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()
	if _, err := service.NewObserver(clock.NewFake(epoch), &scriptedSource{}, 0, nil); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
