// internal/engine/reputation_actor.go
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"krishi-vaidya/internal/database"
	"krishi-vaidya/internal/utils"
)

// ReputationActor serializes score mutations and ranking reads. Posting
// rewards go through here so concurrent posts from one process never
// race on a user's score.
type ReputationActor struct {
	store   database.Store
	metrics *utils.MetricsCollector
}

func NewReputationActor(store database.Store, metrics *utils.MetricsCollector) *ReputationActor {
	return &ReputationActor{store: store, metrics: metrics}
}

func (a *ReputationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *AccruePostRewardMsg:
		a.handleAccrue(ctx, msg)
	case *GetHarvestHeroesMsg:
		a.handleHarvestHeroes(ctx)
	}
}

func (a *ReputationActor) handleAccrue(ctx actor.Context, msg *AccruePostRewardMsg) {
	start := time.Now()
	defer func() { a.metrics.AddOperationLatency("reputation_accrue", time.Since(start)) }()

	result, err := a.store.AccrueOnPost(context.Background(), msg.Phone, msg.Now)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			ctx.Respond(appErr)
		} else {
			ctx.Respond(utils.NewAppError(utils.ErrDatabase, "failed to update reputation", err))
		}
		return
	}

	if !result.Updated {
		slog.Debug("reputation accrual skipped", "phone", msg.Phone)
	}
	ctx.Respond(result)
}

func (a *ReputationActor) handleHarvestHeroes(ctx actor.Context) {
	start := time.Now()
	defer func() { a.metrics.AddOperationLatency("harvest_heroes", time.Since(start)) }()

	users, err := a.store.TopUsersByScore(context.Background(), 3)
	if err != nil {
		ctx.Respond(utils.NewAppError(utils.ErrDatabase, "failed to fetch top farmers", err))
		return
	}
	ctx.Respond(users)
}
