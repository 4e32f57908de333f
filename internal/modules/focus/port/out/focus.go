package out

import (
	"context"
	"time"
)

type PermissionChecker interface {
	IsAuthorized(capability string) bool
	WatchStatus(fn func(capability, status string)) (cancel func())
}

type Restrictor interface {
	Apply(ctx context.Context, blocked []string, duration time.Duration) error
	Release(ctx context.Context) error
	WithdrawNotice(ctx context.Context) error
}

type Rewarder interface {
	Increment(ctx context.Context) (int, error)
}

type BlockListSource interface {
	BlockedApps(ctx context.Context) ([]string, error)
}
