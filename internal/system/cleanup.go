package system

import (
	"time"

	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/game"
	"go.uber.org/zap"
)

// CleanupSystem ends the tick: it strips every transient component
// (oldPosition, infoChanged, destroy) from every entity, drops the tick's
// events (damage, tower requests, notifications), and flushes the deferred
// entity destruction queue. Runs whether or not anything consumed them.
// Phase 6 (Cleanup).
type CleanupSystem struct {
	state *game.State
}

func NewCleanupSystem(state *game.State) *CleanupSystem {
	return &CleanupSystem{state: state}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.state.ECS.ClearTransient()
	s.state.Bus.Reset()
	if n := s.state.ECS.FlushDestroyQueue(); n > 0 {
		s.state.Log.Debug("entities destroyed", zap.Int("count", n), zap.Int("live", s.state.ECS.Len()))
	}
}
