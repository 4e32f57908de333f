package in

import (
	"context"

	"neurofade/internal/modules/focus/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Stop(ctx context.Context) (dto.SessionOutput, error)
	Status(ctx context.Context) (dto.SessionOutput, error)
	Events(ctx context.Context) (<-chan dto.EventOutput, func(), error)
	Presets(ctx context.Context) ([]dto.PresetOutput, error)
}
