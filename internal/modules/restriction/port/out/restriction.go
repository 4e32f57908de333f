package out

import (
	"context"
	"time"

	"neurofade/internal/modules/restriction/domain"
)

type Provider interface {
	SetConfiguration(ctx context.Context, cfg domain.Configuration) error
}

type Notifier interface {
	ScheduleOneShot(ctx context.Context, delay time.Duration, title, body string) (string, error)
	Cancel(ctx context.Context, id string) error
}

type PermissionChecker interface {
	IsAuthorized(capability string) bool
}
