package system

import (
	"time"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/ecs"
	"github.com/tdsim/tdsim/internal/core/event"
	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/game"
	"go.uber.org/zap"
)

// MovingSystem marches entities with a path state one square per Speed
// milliseconds. Leaving the last square puts the entity off map, damages the
// player by its remaining health, and removes it from play. A monster already
// dealt lethal damage this tick does not leave.
// Phase 2 (Update), after TowerUpdateSystem.
type MovingSystem struct {
	state *game.State
}

func NewMovingSystem(state *game.State) *MovingSystem {
	return &MovingSystem{state: state}
}

func (s *MovingSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovingSystem) Update(dt time.Duration) {
	ecs.Each2(s.state.Paths, s.state.Positions, func(id ecs.EntityID, path *component.PathState, pos *component.Position) {
		if path.Node == nil || !s.state.Live(id) {
			return
		}

		path.Elapsed += dt
		if path.Elapsed < path.HopTime() {
			return
		}
		if path.Node.Next == nil && s.doomed(id) {
			// Stay on the last square; DamageSystem removes it this tick.
			return
		}

		path.Elapsed = 0
		left := path.Node
		path.Node = left.Next
		s.state.OldPositions.Set(id, &component.OldPosition{X: left.X, Y: left.Y})

		if path.Node != nil {
			pos.X, pos.Y = path.Node.X, path.Node.Y
			if info, ok := s.state.MonsterInfos.Get(id); ok {
				info.Distance++
			}
			return
		}

		pos.X, pos.Y = component.Offscreen, component.Offscreen
		s.escape(id)
	})
}

// doomed reports whether the Damage queued against id this tick is lethal.
func (s *MovingSystem) doomed(id ecs.EntityID) bool {
	hp, ok := s.state.Healths.Get(id)
	if !ok {
		return false
	}
	pending := 0
	for _, ev := range event.Events[event.Damage](s.state.Bus) {
		if ev.Target == id {
			pending += ev.Amount
		}
	}
	return pending >= hp.HP
}

func (s *MovingSystem) escape(id ecs.EntityID) {
	remaining := 0
	if hp, ok := s.state.Healths.Get(id); ok {
		remaining = hp.HP
	} else {
		s.state.Log.Error("escaping entity missing component",
			zap.Stringer("entity", id),
			zap.String("component", component.NameHealth))
	}
	event.Emit(s.state.Bus, event.Damage{Source: id, Target: s.state.Player, Amount: remaining})

	kind := ""
	if info, ok := s.state.MonsterInfos.Get(id); ok {
		kind = info.Kind
	}
	s.state.Destroy(id)
	event.Emit(s.state.Bus, event.MonsterEscaped{Entity: id, Kind: kind, Damage: remaining})
	s.state.Log.Debug("monster reached the end of the path",
		zap.Stringer("entity", id),
		zap.String("kind", kind),
		zap.Int("damage", remaining))
}
