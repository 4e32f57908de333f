package in

import (
	"context"
	"time"

	"neurofade/internal/modules/restriction/dto"
)

type Usecase interface {
	Apply(ctx context.Context, blocked []string, duration time.Duration) error
	Release(ctx context.Context) error
	WithdrawNotice(ctx context.Context) error
	LastError() string
	Current(ctx context.Context) (dto.ConfigurationOutput, error)
}
