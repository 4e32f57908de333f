package in

import (
	"context"

	"neurofade/internal/modules/permission/dto"
	permissionin "neurofade/internal/modules/permission/port/in"
)

type CLIHandler struct {
	usecase permissionin.Usecase
}

func NewCLIHandler(usecase permissionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Request(ctx context.Context, capability string) (dto.StateOutput, error) {
	return h.usecase.Request(ctx, capability)
}

// Status re-syncs from providers that can report their grant, then lists
// every capability.
func (h CLIHandler) Status(ctx context.Context) ([]dto.StateOutput, error) {
	if err := h.usecase.Sync(ctx); err != nil {
		return nil, err
	}
	return h.usecase.List(ctx)
}
