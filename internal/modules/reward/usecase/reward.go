package usecase

import (
	"context"

	"neurofade/internal/modules/reward/domain"
	"neurofade/internal/modules/reward/dto"
	rewardin "neurofade/internal/modules/reward/port/in"
	rewardout "neurofade/internal/modules/reward/port/out"
	"neurofade/internal/modules/reward/service"
)

type Interactor struct {
	ledger   *service.Ledger
	identity rewardout.Identity
}

func NewInteractor(ledger *service.Ledger, identity rewardout.Identity) rewardin.Usecase {
	return &Interactor{ledger: ledger, identity: identity}
}

func (i *Interactor) Increment(_ context.Context) (int, error) {
	return i.ledger.Increment(), nil
}

func (i *Interactor) Coins(_ context.Context) (int, error) {
	return i.ledger.Coins(), nil
}

func (i *Interactor) Rank(_ context.Context) (int, error) {
	return service.LocalRank(i.ledger.RankedView(i.username())), nil
}

func (i *Interactor) Leaderboard(_ context.Context) (dto.LeaderboardOutput, error) {
	out := dto.LeaderboardOutput{}
	for e := range i.ledger.All(i.username()) {
		out.Entries = append(out.Entries, toOutput(e))
		if e.Local {
			out.Rank = e.Rank
			out.Coins = e.Coins
		}
	}
	return out, nil
}

func (i *Interactor) Reset(_ context.Context) error {
	i.ledger.Reset()
	return nil
}

func (i *Interactor) username() string {
	if i.identity == nil {
		return ""
	}
	return i.identity.Username()
}

func toOutput(e domain.Entry) dto.EntryOutput {
	return dto.EntryOutput{Rank: e.Rank, Name: e.Name, Coins: e.Coins, Local: e.Local}
}
