package in

import (
	"context"

	"neurofade/internal/modules/signal/dto"
	signalin "neurofade/internal/modules/signal/port/in"
)

type CLIHandler struct {
	usecase signalin.Usecase
}

func NewCLIHandler(usecase signalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Sample(ctx context.Context) (dto.ReadingOutput, error) {
	return h.usecase.Sample(ctx)
}

func (h CLIHandler) Watch(ctx context.Context, count int, fn func(dto.ObservationOutput)) error {
	return h.usecase.Watch(ctx, count, fn)
}

func (h CLIHandler) Observe(ctx context.Context) (<-chan dto.ObservationOutput, func(), error) {
	return h.usecase.Observe(ctx)
}
