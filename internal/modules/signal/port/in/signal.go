package in

import (
	"context"

	"neurofade/internal/modules/signal/dto"
)

type Usecase interface {
	Sample(ctx context.Context) (dto.ReadingOutput, error)
	// Watch observes count ticks (0 means until ctx is done) and hands each
	// one to fn. Failed ticks are reported to fn, not returned.
	Watch(ctx context.Context, count int, fn func(dto.ObservationOutput)) error
	Observe(ctx context.Context) (<-chan dto.ObservationOutput, func(), error)
	AuthorizeHealth(ctx context.Context) (bool, error)
	HealthStatus(ctx context.Context) (bool, error)
}
