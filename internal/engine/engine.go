// internal/engine/engine.go
package engine

import (
	"github.com/asynkron/protoactor-go/actor"

	"krishi-vaidya/internal/database"
	"krishi-vaidya/internal/utils"
)

// Engine wires up the actor hierarchy and exposes the PIDs handlers
// talk to.
type Engine struct {
	system        *actor.ActorSystem
	feedPID       *actor.PID
	reputationPID *actor.PID
}

func NewEngine(system *actor.ActorSystem, store database.Store, metrics *utils.MetricsCollector) *Engine {
	reputationPID := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewReputationActor(store, metrics)
	}))

	feedPID := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewFeedActor(store, metrics, reputationPID)
	}))

	return &Engine{
		system:        system,
		feedPID:       feedPID,
		reputationPID: reputationPID,
	}
}

func (e *Engine) FeedPID() *actor.PID       { return e.feedPID }
func (e *Engine) ReputationPID() *actor.PID { return e.reputationPID }
