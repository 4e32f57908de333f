package in

import (
	"context"
	"time"

	"neurofade/internal/modules/focus/dto"
	focusin "neurofade/internal/modules/focus/port/in"
)

type CLIHandler struct {
	usecase focusin.Usecase
}

func NewCLIHandler(usecase focusin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, duration time.Duration, blockList []string) (dto.SessionOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Duration: duration, BlockList: blockList})
}

func (h CLIHandler) Stop(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Events(ctx context.Context) (<-chan dto.EventOutput, func(), error) {
	return h.usecase.Events(ctx)
}

func (h CLIHandler) Presets(ctx context.Context) ([]dto.PresetOutput, error) {
	return h.usecase.Presets(ctx)
}
