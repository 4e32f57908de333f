package in

import (
	"context"

	"neurofade/internal/modules/blocklist/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.BlockListOutput, error)
	Save(ctx context.Context, apps []string) (dto.BlockListOutput, error)
	Add(ctx context.Context, app string) (dto.BlockListOutput, error)
	Remove(ctx context.Context, app string) (dto.BlockListOutput, error)
	Catalog(ctx context.Context) ([]dto.AppOutput, error)
	BlockedApps(ctx context.Context) ([]string, error)
}
