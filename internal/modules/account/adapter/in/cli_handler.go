package in

import (
	"context"

	"neurofade/internal/modules/account/dto"
	accountin "neurofade/internal/modules/account/port/in"
)

type CLIHandler struct {
	usecase accountin.Usecase
}

func NewCLIHandler(usecase accountin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, username string) (dto.UserOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Username: username})
}

func (h CLIHandler) Current(ctx context.Context) (dto.UserOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) SignUp(ctx context.Context, username, firstName, lastName string) (dto.UserOutput, error) {
	return h.usecase.SignUp(ctx, dto.SignUpInput{Username: username, FirstName: firstName, LastName: lastName})
}

func (h CLIHandler) UpdateDetails(ctx context.Context, firstName, lastName string) (dto.UserOutput, error) {
	return h.usecase.UpdateDetails(ctx, dto.DetailsInput{FirstName: firstName, LastName: lastName})
}

func (h CLIHandler) SyncWatch(ctx context.Context) (dto.UserOutput, error) {
	return h.usecase.SyncWatch(ctx)
}
