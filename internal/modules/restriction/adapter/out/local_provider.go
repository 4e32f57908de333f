package out

import (
	"context"
	"slices"
	"sync"

	"neurofade/internal/modules/restriction/domain"
	"neurofade/internal/platform/clock"
)

// LocalProvider enforces restrictions in-process. Launchers ask Blocked
// before opening an app.
type LocalProvider struct {
	clock clock.Clock

	mu  sync.RWMutex
	cfg domain.Configuration
}

func NewLocalProvider(clk clock.Clock) *LocalProvider {
	return &LocalProvider{clock: clk}
}

func (p *LocalProvider) SetConfiguration(_ context.Context, cfg domain.Configuration) error {
	cfg.Blocked = slices.Clone(cfg.Blocked)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
	return nil
}

func (p *LocalProvider) Configuration() domain.Configuration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cfg := p.cfg
	cfg.Blocked = slices.Clone(cfg.Blocked)
	return cfg
}

func (p *LocalProvider) Blocked(appID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.Enforced(appID, p.clock.Now())
}
