package in

import (
	"context"

	"neurofade/internal/modules/blocklist/dto"
	blocklistin "neurofade/internal/modules/blocklist/port/in"
)

type CLIHandler struct {
	usecase blocklistin.Usecase
}

func NewCLIHandler(usecase blocklistin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.BlockListOutput, error) {
	return h.usecase.Load(ctx)
}

func (h CLIHandler) Set(ctx context.Context, apps []string) (dto.BlockListOutput, error) {
	return h.usecase.Save(ctx, apps)
}

func (h CLIHandler) Add(ctx context.Context, app string) (dto.BlockListOutput, error) {
	return h.usecase.Add(ctx, app)
}

func (h CLIHandler) Remove(ctx context.Context, app string) (dto.BlockListOutput, error) {
	return h.usecase.Remove(ctx, app)
}

func (h CLIHandler) Catalog(ctx context.Context) ([]dto.AppOutput, error) {
	return h.usecase.Catalog(ctx)
}
