package in

import (
	"context"

	"neurofade/internal/modules/reward/dto"
	rewardin "neurofade/internal/modules/reward/port/in"
)

type CLIHandler struct {
	usecase rewardin.Usecase
}

func NewCLIHandler(usecase rewardin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Leaderboard(ctx context.Context) (dto.LeaderboardOutput, error) {
	return h.usecase.Leaderboard(ctx)
}
