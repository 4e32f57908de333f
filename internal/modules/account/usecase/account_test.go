package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"neurofade/internal/modules/account/dto"
	"neurofade/internal/modules/account/service"
	"neurofade/internal/modules/account/usecase"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
)

type fakeLedger struct {
	resets int
	err    error
}

func (f *fakeLedger) Reset(context.Context) error {
	f.resets++
	return f.err
}

type memoryStore struct {
	values map[string][]byte
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, key)
	}
	return v, nil
}

func (m *memoryStore) Put(_ context.Context, key string, value []byte) error {
	if m.values == nil {
		m.values = map[string][]byte{}
	}
	m.values[key] = value
	return nil
}

var loginAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestLoginLogoutResetsLedger(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := &fakeLedger{}
	dir := service.NewDirectory(clock.NewFake(loginAt))
	uc := usecase.NewInteractor(dir, ledger, nil)

	if _, err := uc.Current(ctx); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("expected not logged in, got %v", err)
	}
	user, err := uc.Login(ctx, dto.LoginInput{Username: "  ada ", Password: "anything"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "ada" || user.DisplayName != "ada" || !user.LoggedInAt.Equal(loginAt) {
		t.Fatalf("unexpected user %+v", user)
	}
	if dir.Username() != "ada" {
		t.Fatalf("directory must expose the username")
	}
	if ledger.resets != 0 {
		t.Fatalf("login must not reset the ledger")
	}

	if err := uc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ledger.resets != 1 {
		t.Fatalf("expected ledger reset on logout, got %d", ledger.resets)
	}
	if err := uc.Logout(ctx); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("expected not logged in, got %v", err)
	}
	if dir.Username() != "" {
		t.Fatalf("expected empty username after logout")
	}
}

func TestSwitchingUserResetsLedger(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := &fakeLedger{}
	uc := usecase.NewInteractor(service.NewDirectory(clock.NewFake(loginAt)), ledger, nil)

	if _, err := uc.Login(ctx, dto.LoginInput{Username: "ada"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := uc.Login(ctx, dto.LoginInput{Username: "ada"}); err != nil {
		t.Fatalf("re-login: %v", err)
	}
	if ledger.resets != 0 {
		t.Fatalf("same user must keep the balance")
	}
	if _, err := uc.SignUp(ctx, dto.SignUpInput{Username: "grace", FirstName: "Grace", LastName: "Hopper"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if ledger.resets != 1 {
		t.Fatalf("expected reset when switching user, got %d", ledger.resets)
	}
}

func TestEmptyUsernameRejected(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewDirectory(clock.NewFake(loginAt)), &fakeLedger{}, nil)
	if _, err := uc.Login(context.Background(), dto.LoginInput{Username: "   "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := uc.SignUp(context.Background(), dto.SignUpInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDetailsAndWatchSync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := usecase.NewInteractor(service.NewDirectory(clock.NewFake(loginAt)), &fakeLedger{}, nil)

	if _, err := uc.SyncWatch(ctx); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("expected not logged in, got %v", err)
	}
	if _, err := uc.UpdateDetails(ctx, dto.DetailsInput{FirstName: "A"}); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("expected not logged in, got %v", err)
	}
	if _, err := uc.SignUp(ctx, dto.SignUpInput{Username: "ada", FirstName: "Ada"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	updated, err := uc.UpdateDetails(ctx, dto.DetailsInput{FirstName: "Ada", LastName: "Lovelace"})
	if err != nil || updated.DisplayName != "Ada Lovelace" {
		t.Fatalf("unexpected update %+v %v", updated, err)
	}
	synced, err := uc.SyncWatch(ctx)
	if err != nil || !synced.WatchSynced {
		t.Fatalf("unexpected sync %+v %v", synced, err)
	}
}

func TestLogoutReportsLedgerFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := usecase.NewInteractor(service.NewDirectory(clock.NewFake(loginAt)), &fakeLedger{err: errors.New("boom")}, nil)
	if _, err := uc.Login(ctx, dto.LoginInput{Username: "ada"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := uc.Logout(ctx); err == nil {
		t.Fatalf("expected ledger failure")
	}
}

func TestLoginSurvivesRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memoryStore{}
	first := usecase.NewInteractor(service.NewDirectory(clock.NewFake(loginAt)), &fakeLedger{}, service.NewProfiles(store))

	if _, ok, err := first.Restore(ctx); ok || err != nil {
		t.Fatalf("fresh store restored a user: %v %v", ok, err)
	}
	if _, err := first.SignUp(ctx, dto.SignUpInput{Username: "ada", FirstName: "Ada", LastName: "Lovelace"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := first.SyncWatch(ctx); err != nil {
		t.Fatalf("sync watch: %v", err)
	}

	dir := service.NewDirectory(clock.NewFake(loginAt.Add(time.Hour)))
	second := usecase.NewInteractor(dir, &fakeLedger{}, service.NewProfiles(store))
	restored, ok, err := second.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("restore: %v %v", ok, err)
	}
	if restored.DisplayName != "Ada Lovelace" || !restored.WatchSynced || !restored.LoggedInAt.Equal(loginAt) {
		t.Fatalf("unexpected restored user %+v", restored)
	}
	if dir.Username() != "ada" {
		t.Fatalf("directory not restored")
	}

	ledger := &fakeLedger{}
	third := usecase.NewInteractor(service.NewDirectory(clock.NewFake(loginAt)), ledger, service.NewProfiles(store))
	if _, _, err := third.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := third.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ledger.resets != 1 {
		t.Fatalf("expected ledger reset on logout, got %d", ledger.resets)
	}
	if _, ok, _ := third.Restore(ctx); ok {
		t.Fatalf("logout must clear the saved login")
	}
}
