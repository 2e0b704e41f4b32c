package system

import (
	"time"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/ecs"
	"github.com/tdsim/tdsim/internal/core/event"
	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/game"
	"github.com/tdsim/tdsim/internal/scripting"
	"go.uber.org/zap"
)

// DamageSystem applies this tick's Damage events. Health floors at zero;
// the hit that brings it there attaches Destroy once, and a tower kill pays
// the monster's bounty to the player. Phase 3 (PostUpdate).
type DamageSystem struct {
	state *game.State
}

func NewDamageSystem(state *game.State) *DamageSystem {
	return &DamageSystem{state: state}
}

func (s *DamageSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DamageSystem) Update(_ time.Duration) {
	for _, ev := range event.Events[event.Damage](s.state.Bus) {
		s.apply(ev)
	}
}

func (s *DamageSystem) apply(ev event.Damage) {
	if !s.state.ECS.Alive(ev.Target) {
		return
	}
	hp, ok := s.state.Healths.Get(ev.Target)
	if !ok {
		s.state.Log.Error("damage target missing component",
			zap.Stringer("entity", ev.Target),
			zap.String("component", component.NameHealth))
		return
	}

	before := hp.HP
	hp.HP -= ev.Amount
	if hp.HP < 0 {
		hp.HP = 0
	}
	s.state.MarkInfoChanged(ev.Target)

	if before <= 0 || hp.HP > 0 {
		return
	}
	if !s.state.Destroy(ev.Target) {
		return
	}

	if ev.Target == s.state.Player {
		s.state.Log.Info("player defeated", zap.Stringer("by", ev.Source))
		return
	}
	if s.state.TowerStore.Has(ev.Source) {
		s.credit(ev.Target, ev.Source)
	}
}

// credit records a tower kill and pays the bounty.
func (s *DamageSystem) credit(monster, tower ecs.EntityID) {
	info, ok := s.state.MonsterInfos.Get(monster)
	if !ok {
		return
	}
	info.Killed = true

	towerKind := ""
	if t, ok := s.state.TowerStore.Get(tower); ok {
		towerKind = t.Kind
	}
	bounty := s.state.Formulas.CalcKillBounty(scripting.BountyContext{
		MonsterKind: info.Kind,
		BaseBounty:  info.Bounty,
		Distance:    info.Distance,
		TowerKind:   towerKind,
	})
	if bounty > 0 {
		s.state.PlayerInfo().Money += bounty
		s.state.MarkInfoChanged(s.state.Player)
	}
	event.Emit(s.state.Bus, event.MonsterKilled{Entity: monster, Kind: info.Kind, Tower: tower, Bounty: bounty})
	s.state.Log.Debug("monster killed",
		zap.Stringer("entity", monster),
		zap.String("kind", info.Kind),
		zap.Stringer("tower", tower),
		zap.Int("bounty", bounty))
}
