package scheduler

import (
	"context"

	rankUsecases "vonix/internal/application/rank/usecases"
)

// RankSweepJob adapts the expiry usecase to the SweepJob interface.
type RankSweepJob struct {
	expireRanksUC *rankUsecases.ExpireRanksUseCase
}

func NewRankSweepJob(expireRanksUC *rankUsecases.ExpireRanksUseCase) *RankSweepJob {
	return &RankSweepJob{expireRanksUC: expireRanksUC}
}

func (j *RankSweepJob) Execute(ctx context.Context) (int, error) {
	result, err := j.expireRanksUC.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return result.Removed, nil
}
