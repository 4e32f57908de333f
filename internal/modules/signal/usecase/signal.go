package usecase

import (
	"context"
	"sync"

	"neurofade/internal/modules/signal/domain"
	"neurofade/internal/modules/signal/dto"
	signalin "neurofade/internal/modules/signal/port/in"
	signalout "neurofade/internal/modules/signal/port/out"
	"neurofade/internal/modules/signal/service"
)

type Interactor struct {
	source   service.Source
	observer *service.Observer
	sensor   signalout.Sensor
}

func NewInteractor(source service.Source, observer *service.Observer, sensor signalout.Sensor) signalin.Usecase {
	return &Interactor{source: source, observer: observer, sensor: sensor}
}

func (i *Interactor) Sample(ctx context.Context) (dto.ReadingOutput, error) {
	reading, err := i.source.Sample(ctx)
	if err != nil {
		return dto.ReadingOutput{}, err
	}
	return toOutput(reading), nil
}

func (i *Interactor) Watch(ctx context.Context, count int, fn func(dto.ObservationOutput)) error {
	observations, cancel, err := i.Observe(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	seen := 0
	for {
		select {
		case <-ctx.Done():
			if count == 0 {
				return nil
			}
			return ctx.Err()
		case obs := <-observations:
			fn(obs)
			seen++
			if count > 0 && seen >= count {
				return nil
			}
		}
	}
}

// Observe starts the observer and relays its observations until the returned
// cancel func is called, which also stops the observer.
func (i *Interactor) Observe(ctx context.Context) (<-chan dto.ObservationOutput, func(), error) {
	raw, unsubscribe := i.observer.Subscribe()
	i.observer.Start(ctx)

	out := make(chan dto.ObservationOutput, cap(raw))
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case obs := <-raw:
				o := dto.ObservationOutput{Reading: toOutput(obs.Reading), Err: obs.Err}
				select {
				case out <- o:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			unsubscribe()
			i.observer.Stop()
		})
	}
	return out, cancel, nil
}

// AuthorizeHealth asks the health provider for read access to every channel
// the device source queries.
func (i *Interactor) AuthorizeHealth(ctx context.Context) (bool, error) {
	if i.sensor == nil {
		return false, nil
	}
	return i.sensor.RequestAuthorization(ctx, domain.Metrics)
}

// HealthStatus reports whether the health grant still holds.
func (i *Interactor) HealthStatus(ctx context.Context) (bool, error) {
	if i.sensor == nil {
		return false, nil
	}
	return i.sensor.AuthorizationStatus(ctx)
}

func toOutput(r domain.Reading) dto.ReadingOutput {
	return dto.ReadingOutput{
		At:     r.At,
		Alpha:  r.Alpha,
		Beta:   r.Beta,
		HRV:    r.HRV,
		Label:  string(r.Label),
		Stress: string(r.Stress),
	}
}
