package out

import (
	"context"

	"neurofade/internal/platform/config"
)

type HealthProvider interface {
	AuthorizeHealth(ctx context.Context) (bool, error)
	HealthStatus(ctx context.Context) (bool, error)
}

// HealthAuthorizer forwards the health grant to the signal provider, which
// owns the dialog with the paired device.
type HealthAuthorizer struct {
	provider HealthProvider
	mode     string
}

func NewHealthAuthorizer(provider HealthProvider, mode string) *HealthAuthorizer {
	return &HealthAuthorizer{provider: provider, mode: mode}
}

func (h *HealthAuthorizer) RequestAuthorization(ctx context.Context) (bool, error) {
	if h.mode == config.PermissionDeny {
		return false, nil
	}
	return h.provider.AuthorizeHealth(ctx)
}

func (h *HealthAuthorizer) AuthorizationStatus(ctx context.Context) (bool, error) {
	if h.mode == config.PermissionDeny {
		return false, nil
	}
	return h.provider.HealthStatus(ctx)
}
