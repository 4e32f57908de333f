package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"neurofade/internal/modules/focus/domain"
	"neurofade/internal/modules/focus/dto"
	focusin "neurofade/internal/modules/focus/port/in"
	focusout "neurofade/internal/modules/focus/port/out"
	"neurofade/internal/modules/focus/service"
)

type Interactor struct {
	controller *service.Controller
	blockList  focusout.BlockListSource
}

func NewInteractor(controller *service.Controller, blockList focusout.BlockListSource) focusin.Usecase {
	return &Interactor{controller: controller, blockList: blockList}
}

// Start runs a session. Without an explicit block list the saved one is
// read once and snapshotted into the session.
func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	blocked := input.BlockList
	if blocked == nil && i.blockList != nil {
		saved, err := i.blockList.BlockedApps(ctx)
		if err != nil {
			return dto.SessionOutput{}, fmt.Errorf("load block list: %w", err)
		}
		blocked = saved
	}
	session, err := i.controller.Start(ctx, input.Duration, blocked)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Stop(ctx context.Context) (dto.SessionOutput, error) {
	session, err := i.controller.Stop(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Status(_ context.Context) (dto.SessionOutput, error) {
	return toOutput(i.controller.Snapshot()), nil
}

// Events relays controller events until the returned cancel func is called
// or ctx is done.
func (i *Interactor) Events(ctx context.Context) (<-chan dto.EventOutput, func(), error) {
	raw, unsubscribe := i.controller.Subscribe()
	out := make(chan dto.EventOutput, cap(raw))
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case ev := <-raw:
				select {
				case out <- eventOutput(ev):
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			unsubscribe()
		})
	}
	return out, cancel, nil
}

func (i *Interactor) Presets(_ context.Context) ([]dto.PresetOutput, error) {
	out := make([]dto.PresetOutput, 0, len(domain.Presets))
	for _, d := range domain.Presets {
		out = append(out, dto.PresetOutput{Label: presetLabel(d), Duration: d, Countdown: domain.FormatRemaining(d)})
	}
	return out, nil
}

func presetLabel(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	if d > time.Hour {
		return fmt.Sprintf("%.1f hours", d.Hours())
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}

func toOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		ID:        s.ID,
		State:     string(s.State),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Duration:  s.Duration,
		Remaining: s.Remaining,
		Countdown: domain.FormatRemaining(s.Remaining),
		BlockList: s.BlockList,
		Coins:     s.Coins,
		Message:   s.Message,
		Reason:    s.Reason,
	}
}

func eventOutput(ev domain.Event) dto.EventOutput {
	return dto.EventOutput{
		Kind:    string(ev.Kind),
		At:      ev.At,
		Session: toOutput(ev.Session),
		Coins:   ev.Coins,
		Message: ev.Message,
	}
}
