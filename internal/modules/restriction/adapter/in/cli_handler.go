package in

import (
	"context"

	"neurofade/internal/modules/restriction/dto"
	restrictionin "neurofade/internal/modules/restriction/port/in"
)

type CLIHandler struct {
	usecase restrictionin.Usecase
}

func NewCLIHandler(usecase restrictionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Current(ctx context.Context) (dto.ConfigurationOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) LastError() string {
	return h.usecase.LastError()
}
