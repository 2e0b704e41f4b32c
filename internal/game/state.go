package game

import (
	"fmt"
	"math/rand"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/ecs"
	"github.com/tdsim/tdsim/internal/core/event"
	"github.com/tdsim/tdsim/internal/data"
	"github.com/tdsim/tdsim/internal/scripting"
	"github.com/tdsim/tdsim/internal/world"
	"go.uber.org/zap"
)

// State is the simulation context handed to every system: the ECS world with
// its typed stores, the per-tick event bus, the static terrain, and the
// player singleton. One State per simulation; nothing here is global.
// Accessed only from the game loop goroutine.
type State struct {
	ECS      *ecs.World
	Bus      *event.Bus
	World    *world.World
	Log      *zap.Logger
	Rand     *rand.Rand
	Formulas *scripting.Engine
	Monsters *data.MonsterTable
	Towers   *data.TowerTable

	Positions    *ecs.Store[component.Position]
	OldPositions *ecs.Store[component.OldPosition]
	Paths        *ecs.Store[component.PathState]
	Drawables    *ecs.Store[component.Drawable]
	Healths      *ecs.Store[component.Health]
	MonsterInfos *ecs.Store[component.MonsterInfo]
	PlayerInfos  *ecs.Store[component.PlayerInfo]
	Factories    *ecs.Store[component.TowerFactory]
	TowerStore   *ecs.Store[component.Tower]
	InfoChanged  *ecs.Store[component.InfoChanged]
	Destroyed    *ecs.Store[component.Destroy]

	Player ecs.EntityID
	over   bool
}

// Options configures NewState. World, Formulas and Log are required.
type Options struct {
	World        *world.World
	Monsters     *data.MonsterTable // nil = built-in roster
	Towers       *data.TowerTable   // nil = built-in towers
	Formulas     *scripting.Engine
	Rand         *rand.Rand // nil = seeded with 1
	Log          *zap.Logger
	StartMoney   int
	PlayerHealth int
}

// NewState registers every component store, then creates the player and one
// factory entity per tower template.
func NewState(opts Options) (*State, error) {
	if opts.World == nil || opts.Formulas == nil || opts.Log == nil {
		return nil, fmt.Errorf("game state: world, formulas and logger are required")
	}
	s := &State{
		ECS:      ecs.NewWorld(),
		Bus:      event.NewBus(),
		World:    opts.World,
		Log:      opts.Log,
		Rand:     opts.Rand,
		Formulas: opts.Formulas,
		Monsters: opts.Monsters,
		Towers:   opts.Towers,
	}
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewSource(1))
	}
	if s.Monsters == nil {
		s.Monsters = data.DefaultMonsters()
	}
	if s.Towers == nil {
		s.Towers = data.DefaultTowers()
	}
	if err := s.registerStores(); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}

	s.Player = s.ECS.CreateEntity()
	s.PlayerInfos.Set(s.Player, &component.PlayerInfo{Money: opts.StartMoney})
	s.Healths.Set(s.Player, &component.Health{HP: opts.PlayerHealth, MaxHP: opts.PlayerHealth})

	for _, tpl := range s.Towers.All() {
		s.NewTowerFactory(tpl)
	}
	return s, nil
}

func (s *State) registerStores() error {
	var err error
	w := s.ECS
	if s.Positions, err = ecs.Register[component.Position](w); err != nil {
		return err
	}
	if s.OldPositions, err = ecs.RegisterTransient[component.OldPosition](w); err != nil {
		return err
	}
	if s.Paths, err = ecs.Register[component.PathState](w); err != nil {
		return err
	}
	if s.Drawables, err = ecs.Register[component.Drawable](w); err != nil {
		return err
	}
	if s.Healths, err = ecs.Register[component.Health](w); err != nil {
		return err
	}
	if s.MonsterInfos, err = ecs.Register[component.MonsterInfo](w); err != nil {
		return err
	}
	if s.PlayerInfos, err = ecs.Register[component.PlayerInfo](w); err != nil {
		return err
	}
	if s.Factories, err = ecs.Register[component.TowerFactory](w); err != nil {
		return err
	}
	if s.TowerStore, err = ecs.Register[component.Tower](w); err != nil {
		return err
	}
	if s.InfoChanged, err = ecs.RegisterTransient[component.InfoChanged](w); err != nil {
		return err
	}
	if s.Destroyed, err = ecs.RegisterTransient[component.Destroy](w); err != nil {
		return err
	}
	return nil
}

// PlayerInfo returns the player's economy state.
func (s *State) PlayerInfo() *component.PlayerInfo {
	p, ok := s.PlayerInfos.Get(s.Player)
	if !ok {
		panic("game: player entity lost its playerInfo component")
	}
	return p
}

// PlayerHealth returns the player's health.
func (s *State) PlayerHealth() *component.Health {
	h, ok := s.Healths.Get(s.Player)
	if !ok {
		panic("game: player entity lost its health component")
	}
	return h
}

// MarkInfoChanged flags id for a presentation refresh this tick.
func (s *State) MarkInfoChanged(id ecs.EntityID) {
	s.InfoChanged.Set(id, &component.InfoChanged{})
}

// Destroy attaches the Destroy marker to id and queues it for removal at the
// end of the tick. Returns false if id was already leaving play.
func (s *State) Destroy(id ecs.EntityID) bool {
	if s.Destroyed.Has(id) || s.ECS.PendingDestruction(id) {
		return false
	}
	s.Destroyed.Set(id, &component.Destroy{})
	if info, ok := s.MonsterInfos.Get(id); ok {
		info.Destroyed = true
	}
	if id == s.Player {
		// The player is never evicted; losing it ends the match.
		s.over = true
		return true
	}
	s.ECS.MarkForDestruction(id)
	return true
}

// Over reports whether the player has been defeated.
func (s *State) Over() bool { return s.over }

// Live reports whether id is in play and not already leaving.
func (s *State) Live(id ecs.EntityID) bool {
	return s.ECS.Alive(id) && !s.ECS.PendingDestruction(id)
}
