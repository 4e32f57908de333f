package in

import (
	"context"

	"neurofade/internal/modules/reward/dto"
)

type Usecase interface {
	Increment(ctx context.Context) (int, error)
	Coins(ctx context.Context) (int, error)
	Rank(ctx context.Context) (int, error)
	Leaderboard(ctx context.Context) (dto.LeaderboardOutput, error)
	Reset(ctx context.Context) error
}
