package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"neurofade/internal/modules/permission/domain"
	permissionout "neurofade/internal/modules/permission/port/out"
	"neurofade/internal/modules/permission/service"
	"neurofade/internal/modules/permission/usecase"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
)

type staticAuthorizer bool

func (s staticAuthorizer) RequestAuthorization(context.Context) (bool, error) {
	return bool(s), nil
}

func TestInteractorRequestAndStatus(t *testing.T) {
	t.Parallel()
	gate := service.NewGate(clock.NewFake(time.Unix(0, 0)), map[domain.Capability]permissionout.Authorizer{
		domain.CapabilityRestriction: staticAuthorizer(true),
		domain.CapabilityHealth:      staticAuthorizer(false),
	}, nil, nil)
	uc := usecase.NewInteractor(gate)
	ctx := context.Background()

	if uc.IsAuthorized("restriction") {
		t.Fatalf("restriction must start unauthorized")
	}
	var changes []string
	stop := uc.WatchStatus(func(capability, status string) { changes = append(changes, capability+"="+status) })
	defer stop()

	out, err := uc.Request(ctx, "restriction")
	if err != nil || out.Status != "authorized" {
		t.Fatalf("unexpected request result %+v %v", out, err)
	}
	if !uc.IsAuthorized("restriction") {
		t.Fatalf("expected restriction to be authorized")
	}
	if len(changes) != 2 || changes[1] != "restriction=authorized" {
		t.Fatalf("unexpected watch events %v", changes)
	}

	health, err := uc.Request(ctx, "health")
	if err != nil || health.Status != "denied" {
		t.Fatalf("unexpected health result %+v %v", health, err)
	}
	status, err := uc.Status(ctx, "health")
	if err != nil || status != health {
		t.Fatalf("status mismatch %+v vs %+v (%v)", status, health, err)
	}

	list, err := uc.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("unexpected list %+v %v", list, err)
	}
}

func TestInteractorRejectsUnknownCapability(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewGate(clock.NewFake(time.Unix(0, 0)), nil, nil, nil))
	if _, err := uc.Request(context.Background(), "microphone"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := uc.Status(context.Background(), "microphone"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if uc.IsAuthorized("microphone") {
		t.Fatalf("unknown capability must not be authorized")
	}
}
