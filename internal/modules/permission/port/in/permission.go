package in

import (
	"context"

	"neurofade/internal/modules/permission/dto"
)

type Usecase interface {
	Request(ctx context.Context, capability string) (dto.StateOutput, error)
	Status(ctx context.Context, capability string) (dto.StateOutput, error)
	List(ctx context.Context) ([]dto.StateOutput, error)
	Sync(ctx context.Context) error
	IsAuthorized(capability string) bool
	WatchStatus(fn func(capability, status string)) (cancel func())
}
