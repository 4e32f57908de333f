package usecase

import (
	"context"
	"slices"
	"time"

	"neurofade/internal/modules/restriction/dto"
	restrictionin "neurofade/internal/modules/restriction/port/in"
	"neurofade/internal/modules/restriction/service"
	"neurofade/internal/platform/clock"
)

type Interactor struct {
	applier *service.Applier
	clock   clock.Clock
}

func NewInteractor(applier *service.Applier, clk clock.Clock) restrictionin.Usecase {
	return &Interactor{applier: applier, clock: clk}
}

func (i *Interactor) Apply(ctx context.Context, blocked []string, duration time.Duration) error {
	return i.applier.Apply(ctx, blocked, duration)
}

func (i *Interactor) Release(ctx context.Context) error {
	return i.applier.Release(ctx)
}

func (i *Interactor) WithdrawNotice(ctx context.Context) error {
	return i.applier.WithdrawNotice(ctx)
}

func (i *Interactor) LastError() string {
	return i.applier.LastError()
}

func (i *Interactor) Current(_ context.Context) (dto.ConfigurationOutput, error) {
	cfg := i.applier.Current()
	now := i.clock.Now()
	return dto.ConfigurationOutput{
		Blocked: slices.Clone(cfg.Blocked),
		Start:   cfg.Schedule.Start,
		End:     cfg.Schedule.End,
		Active:  !cfg.Empty() && !now.Before(cfg.Schedule.Start) && now.Before(cfg.Schedule.End),
	}, nil
}
