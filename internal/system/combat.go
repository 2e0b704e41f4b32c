package system

import (
	"time"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/ecs"
	"github.com/tdsim/tdsim/internal/core/event"
	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/game"
	"github.com/tdsim/tdsim/internal/scripting"
	"github.com/tdsim/tdsim/internal/world"
	"go.uber.org/zap"
)

// TowerUpdateSystem charges tower attack timers and fires at the first
// monster in range, in spawn order. A tower whose timer is full but finds no
// target keeps it full and fires on the next tick that has one.
// Phase 2 (Update).
type TowerUpdateSystem struct {
	state *game.State
}

func NewTowerUpdateSystem(state *game.State) *TowerUpdateSystem {
	return &TowerUpdateSystem{state: state}
}

func (s *TowerUpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *TowerUpdateSystem) Update(dt time.Duration) {
	ecs.Each2(s.state.TowerStore, s.state.Positions, func(id ecs.EntityID, t *component.Tower, pos *component.Position) {
		interval := t.Interval()
		if t.Timer < interval {
			t.Timer += dt
		}
		if t.Timer < interval {
			return
		}

		target, dist, ok := s.findTarget(t, pos)
		if !ok {
			return
		}
		info, _ := s.state.MonsterInfos.Get(target)
		hp, _ := s.state.Healths.Get(target)
		amount := s.state.Formulas.CalcTowerDamage(scripting.TowerDamageContext{
			TowerKind:  t.Kind,
			BaseDamage: t.Damage,
			TargetKind: info.Kind,
			TargetHP:   hp.HP,
			Distance:   dist,
		})
		event.Emit(s.state.Bus, event.Damage{Source: id, Target: target, Amount: amount})
		t.Timer = 0
		s.state.Log.Debug("tower fired",
			zap.Stringer("tower", id),
			zap.Stringer("target", target),
			zap.Int("damage", amount))
	})
}

// findTarget returns the first live monster with min < distance <= max.
func (s *TowerUpdateSystem) findTarget(t *component.Tower, pos *component.Position) (ecs.EntityID, float64, bool) {
	lo, hi := float64(t.MinRange), float64(t.MaxRange)
	for _, id := range s.state.MonsterInfos.IDs() {
		info, _ := s.state.MonsterInfos.Get(id)
		if info.Destroyed || !s.state.Live(id) {
			continue
		}
		mpos, ok := s.state.Positions.Get(id)
		if !ok {
			s.state.Log.Error("monster missing component",
				zap.Stringer("entity", id),
				zap.String("component", component.NamePosition))
			continue
		}
		if mpos.OffMap() {
			continue
		}
		if hp, ok := s.state.Healths.Get(id); !ok || hp.HP <= 0 {
			continue
		}
		d := world.Distance(pos.X, pos.Y, mpos.X, mpos.Y)
		if world.InRange(d, lo, hi) {
			return id, d, true
		}
	}
	return 0, 0, false
}
