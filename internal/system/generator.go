package system

import (
	"time"

	"github.com/tdsim/tdsim/internal/core/event"
	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/game"
	"go.uber.org/zap"
)

// GeneratorSystem spawns one random monster at the path start every
// interval until max monsters have been spawned, then stops for good.
// Phase 1 (PreUpdate).
type GeneratorSystem struct {
	state    *game.State
	interval time.Duration
	max      int
	elapsed  time.Duration
	spawned  int
}

func NewGeneratorSystem(state *game.State, interval time.Duration, limit int) *GeneratorSystem {
	return &GeneratorSystem{state: state, interval: interval, max: limit}
}

func (s *GeneratorSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

// Spawned is how many monsters have been generated so far.
func (s *GeneratorSystem) Spawned() int { return s.spawned }

// Done reports whether the wave is exhausted.
func (s *GeneratorSystem) Done() bool { return s.spawned >= s.max }

func (s *GeneratorSystem) Update(dt time.Duration) {
	if s.spawned >= s.max {
		return
	}

	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}

	roster := s.state.Monsters.All()
	if len(roster) == 0 {
		return
	}
	tpl := roster[s.state.Rand.Intn(len(roster))]
	id, err := s.state.SpawnMonster(tpl, s.state.World.Path)
	if err != nil {
		s.state.Log.Error("monster spawn failed", zap.String("kind", tpl.Kind), zap.Error(err))
		return
	}
	s.elapsed = 0
	s.spawned++
	event.Emit(s.state.Bus, event.MonsterSpawned{Entity: id, Kind: tpl.Kind})
	s.state.Log.Debug("monster spawned",
		zap.Stringer("entity", id),
		zap.String("kind", tpl.Kind),
		zap.Int("spawned", s.spawned))
}
