package usecase

import (
	"context"
	"fmt"
	"strings"

	"neurofade/internal/modules/account/domain"
	"neurofade/internal/modules/account/dto"
	accountin "neurofade/internal/modules/account/port/in"
	accountout "neurofade/internal/modules/account/port/out"
	"neurofade/internal/modules/account/service"
	apperrors "neurofade/internal/platform/errors"
)

type Interactor struct {
	directory *service.Directory
	ledger    accountout.LedgerResetter
	profiles  *service.Profiles
}

// NewInteractor wires the account usecase. With nil profiles the login only
// lasts for the process.
func NewInteractor(directory *service.Directory, ledger accountout.LedgerResetter, profiles *service.Profiles) accountin.Usecase {
	return &Interactor{directory: directory, ledger: ledger, profiles: profiles}
}

// Restore signs the saved user back in and reports whether there was one.
func (i *Interactor) Restore(ctx context.Context) (dto.UserOutput, bool, error) {
	if i.profiles == nil {
		return dto.UserOutput{}, false, nil
	}
	u, ok, err := i.profiles.Load(ctx)
	if err != nil || !ok {
		return dto.UserOutput{}, false, err
	}
	i.directory.Restore(u)
	return toOutput(u), true, nil
}

// Login starts a login scope. Switching to another user resets the coin
// balance, since the ledger belongs to the scope.
func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.UserOutput, error) {
	name, err := domain.NormalizeUsername(input.Username)
	if err != nil {
		return dto.UserOutput{}, err
	}
	return i.signIn(ctx, domain.User{Username: name})
}

func (i *Interactor) SignUp(ctx context.Context, input dto.SignUpInput) (dto.UserOutput, error) {
	name, err := domain.NormalizeUsername(input.Username)
	if err != nil {
		return dto.UserOutput{}, err
	}
	return i.signIn(ctx, domain.User{
		Username:  name,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	})
}

func (i *Interactor) Logout(ctx context.Context) error {
	if !i.directory.SignOut() {
		return apperrors.ErrNotLoggedIn
	}
	if i.profiles != nil {
		if err := i.profiles.Clear(ctx); err != nil {
			return err
		}
	}
	if err := i.ledger.Reset(ctx); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	return nil
}

func (i *Interactor) Current(_ context.Context) (dto.UserOutput, error) {
	u, ok := i.directory.Current()
	if !ok {
		return dto.UserOutput{}, apperrors.ErrNotLoggedIn
	}
	return toOutput(u), nil
}

func (i *Interactor) UpdateDetails(ctx context.Context, input dto.DetailsInput) (dto.UserOutput, error) {
	return i.update(ctx, func(u *domain.User) {
		u.FirstName = strings.TrimSpace(input.FirstName)
		u.LastName = strings.TrimSpace(input.LastName)
	})
}

// SyncWatch marks the paired watch as synced for the current user.
func (i *Interactor) SyncWatch(ctx context.Context) (dto.UserOutput, error) {
	return i.update(ctx, func(u *domain.User) { u.WatchSynced = true })
}

func (i *Interactor) update(ctx context.Context, fn func(*domain.User)) (dto.UserOutput, error) {
	u, ok := i.directory.Update(fn)
	if !ok {
		return dto.UserOutput{}, apperrors.ErrNotLoggedIn
	}
	if err := i.save(ctx, u); err != nil {
		return dto.UserOutput{}, err
	}
	return toOutput(u), nil
}

func (i *Interactor) signIn(ctx context.Context, user domain.User) (dto.UserOutput, error) {
	u, switched := i.directory.SignIn(user)
	if switched {
		if err := i.ledger.Reset(ctx); err != nil {
			return dto.UserOutput{}, fmt.Errorf("reset ledger: %w", err)
		}
	}
	if err := i.save(ctx, u); err != nil {
		return dto.UserOutput{}, err
	}
	return toOutput(u), nil
}

func (i *Interactor) save(ctx context.Context, u domain.User) error {
	if i.profiles == nil {
		return nil
	}
	return i.profiles.Save(ctx, u)
}

func toOutput(u domain.User) dto.UserOutput {
	return dto.UserOutput{
		Username:    u.Username,
		DisplayName: u.DisplayName(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		WatchSynced: u.WatchSynced,
		LoggedInAt:  u.LoggedInAt,
	}
}
