package usecase

import (
	"context"

	"neurofade/internal/modules/permission/domain"
	"neurofade/internal/modules/permission/dto"
	permissionin "neurofade/internal/modules/permission/port/in"
	"neurofade/internal/modules/permission/service"
)

type Interactor struct {
	gate *service.Gate
}

func NewInteractor(gate *service.Gate) permissionin.Usecase {
	return &Interactor{gate: gate}
}

func (i *Interactor) Request(ctx context.Context, capability string) (dto.StateOutput, error) {
	c, err := domain.ParseCapability(capability)
	if err != nil {
		return dto.StateOutput{}, err
	}
	st, err := i.gate.RequestAuthorization(ctx, c)
	if err != nil {
		return dto.StateOutput{}, err
	}
	return toOutput(st), nil
}

func (i *Interactor) Status(_ context.Context, capability string) (dto.StateOutput, error) {
	c, err := domain.ParseCapability(capability)
	if err != nil {
		return dto.StateOutput{}, err
	}
	return toOutput(i.gate.CurrentStatus(c)), nil
}

func (i *Interactor) List(_ context.Context) ([]dto.StateOutput, error) {
	states := i.gate.States()
	out := make([]dto.StateOutput, 0, len(states))
	for _, st := range states {
		out = append(out, toOutput(st))
	}
	return out, nil
}

func (i *Interactor) Sync(ctx context.Context) error {
	i.gate.Sync(ctx)
	return nil
}

// IsAuthorized reports whether capability is currently granted. Unknown
// capability names are never authorized.
func (i *Interactor) IsAuthorized(capability string) bool {
	c, err := domain.ParseCapability(capability)
	if err != nil {
		return false
	}
	return i.gate.CurrentStatus(c).Authorized()
}

func (i *Interactor) WatchStatus(fn func(capability, status string)) func() {
	return i.gate.Watch(func(st domain.State) {
		fn(string(st.Capability), string(st.Status))
	})
}

func toOutput(st domain.State) dto.StateOutput {
	return dto.StateOutput{
		Capability: string(st.Capability),
		Status:     string(st.Status),
		Message:    st.Message,
		UpdatedAt:  st.UpdatedAt,
	}
}
