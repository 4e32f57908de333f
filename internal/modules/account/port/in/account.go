package in

import (
	"context"

	"neurofade/internal/modules/account/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.UserOutput, error)
	SignUp(ctx context.Context, input dto.SignUpInput) (dto.UserOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (dto.UserOutput, error)
	UpdateDetails(ctx context.Context, input dto.DetailsInput) (dto.UserOutput, error)
	SyncWatch(ctx context.Context) (dto.UserOutput, error)
	Restore(ctx context.Context) (dto.UserOutput, bool, error)
}
