package usecase

import (
	"context"
	"sync"

	"neurofade/internal/modules/blocklist/domain"
	"neurofade/internal/modules/blocklist/dto"
	blocklistin "neurofade/internal/modules/blocklist/port/in"
	"neurofade/internal/modules/blocklist/service"
)

type Interactor struct {
	repo *service.Repository
	mu   sync.Mutex
}

func NewInteractor(repo *service.Repository) blocklistin.Usecase {
	return &Interactor{repo: repo}
}

func (i *Interactor) Load(ctx context.Context) (dto.BlockListOutput, error) {
	list, err := i.repo.Load(ctx)
	if err != nil {
		return dto.BlockListOutput{}, err
	}
	return toOutput(list), nil
}

// Save replaces the stored list.
func (i *Interactor) Save(ctx context.Context, apps []string) (dto.BlockListOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	list := domain.New(apps...)
	if err := i.repo.Save(ctx, list); err != nil {
		return dto.BlockListOutput{}, err
	}
	return toOutput(list), nil
}

func (i *Interactor) Add(ctx context.Context, app string) (dto.BlockListOutput, error) {
	return i.update(ctx, func(list *domain.BlockList) error {
		return list.Add(app)
	})
}

func (i *Interactor) Remove(ctx context.Context, app string) (dto.BlockListOutput, error) {
	return i.update(ctx, func(list *domain.BlockList) error {
		list.Remove(app)
		return nil
	})
}

func (i *Interactor) Catalog(ctx context.Context) ([]dto.AppOutput, error) {
	list, err := i.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AppOutput, 0, len(domain.Catalog))
	for _, app := range domain.Catalog {
		out = append(out, dto.AppOutput{ID: app.ID, Name: app.Name, Selected: list.Contains(app.ID)})
	}
	return out, nil
}

// BlockedApps is the snapshot a focus session starts with.
func (i *Interactor) BlockedApps(ctx context.Context) ([]string, error) {
	list, err := i.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return list.IDs(), nil
}

func (i *Interactor) update(ctx context.Context, fn func(*domain.BlockList) error) (dto.BlockListOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	list, err := i.repo.Load(ctx)
	if err != nil {
		return dto.BlockListOutput{}, err
	}
	if err := fn(&list); err != nil {
		return dto.BlockListOutput{}, err
	}
	if err := i.repo.Save(ctx, list); err != nil {
		return dto.BlockListOutput{}, err
	}
	return toOutput(list), nil
}

func toOutput(list domain.BlockList) dto.BlockListOutput {
	apps := list.IDs()
	if apps == nil {
		apps = []string{}
	}
	return dto.BlockListOutput{Apps: apps}
}
