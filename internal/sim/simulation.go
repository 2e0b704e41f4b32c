package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/tdsim/tdsim/internal/config"
	"github.com/tdsim/tdsim/internal/core/ecs"
	"github.com/tdsim/tdsim/internal/core/event"
	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/data"
	"github.com/tdsim/tdsim/internal/game"
	"github.com/tdsim/tdsim/internal/scripting"
	"github.com/tdsim/tdsim/internal/system"
	"github.com/tdsim/tdsim/internal/world"
	"go.uber.org/zap"
)

var ErrRequestQueueFull = errors.New("request queue full")

// Outcome of a match.
type Outcome string

const (
	Running Outcome = ""
	Victory Outcome = "victory"
	Defeat  Outcome = "defeat"
)

const requestQueueSize = 64

// Options configures New. Config, Formulas and Log are required.
type Options struct {
	Config     *config.Config
	World      *world.World       // nil = generated from Config.World
	Monsters   *data.MonsterTable // nil = built-in roster
	Towers     *data.TowerTable   // nil = built-in towers
	Formulas   *scripting.Engine
	Log        *zap.Logger
	Journal    system.Journal // nil = no journal
	MatchID    uuid.UUID
	Presenters []system.Presenter
}

// Simulation is the core's surface to presenters and the process: it owns
// the simulation context and the fixed system pipeline.
type Simulation struct {
	state     *game.State
	runner    *coresys.Runner
	generator *system.GeneratorSystem
	output    *system.OutputSystem
	journal   *system.JournalSystem
	requests  chan event.TowerCreated
	hovers    chan event.FactoryHover
	ticks     uint64
	seed      int64
	matchID   uuid.UUID
	log       *zap.Logger
}

// New builds the world, the simulation context and the system pipeline:
// input, generation, tower creation, tower combat, movement, damage, output,
// journal, cleanup.
func New(opts Options) (*Simulation, error) {
	if opts.Config == nil || opts.Formulas == nil || opts.Log == nil {
		return nil, fmt.Errorf("simulation: config, formulas and logger are required")
	}
	cfg := opts.Config

	w := opts.World
	if w == nil {
		w = world.Generate(world.GenConfig{
			MapSize: cfg.World.MapSize,
			StartX:  cfg.World.StartX,
			StartY:  cfg.World.StartY,
			EndX:    cfg.World.EndX,
			EndY:    cfg.World.EndY,
		}, opts.Log)
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	state, err := game.NewState(game.Options{
		World:        w,
		Monsters:     opts.Monsters,
		Towers:       opts.Towers,
		Formulas:     opts.Formulas,
		Rand:         rand.New(rand.NewSource(seed)),
		Log:          opts.Log,
		StartMoney:   cfg.Simulation.StartMoney,
		PlayerHealth: cfg.Simulation.PlayerHealth,
	})
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	s := &Simulation{
		state:    state,
		runner:   coresys.NewRunner(opts.Log),
		requests: make(chan event.TowerCreated, requestQueueSize),
		hovers:   make(chan event.FactoryHover, requestQueueSize),
		seed:     seed,
		matchID:  opts.MatchID,
		log:      opts.Log,
	}
	s.generator = system.NewGeneratorSystem(state, cfg.Simulation.SpawnInterval, cfg.Simulation.MaxMonsters)
	s.output = system.NewOutputSystem(state, opts.Presenters...)

	s.runner.Register(system.NewInputSystem(state, s.requests, s.hovers, requestQueueSize))
	s.runner.Register(s.generator)
	s.runner.Register(system.NewTowerCreationSystem(state))
	s.runner.Register(system.NewTowerUpdateSystem(state))
	s.runner.Register(system.NewMovingSystem(state))
	s.runner.Register(system.NewDamageSystem(state))
	s.runner.Register(s.output)
	if opts.Journal != nil {
		s.journal = system.NewJournalSystem(state, opts.Journal, opts.MatchID, cfg.Journal.FlushEvery)
		s.runner.Register(s.journal)
	}
	s.runner.Register(system.NewCleanupSystem(state))
	return s, nil
}

// Advance runs the full system pipeline once with dt of elapsed time.
func (s *Simulation) Advance(dt time.Duration) {
	s.ticks++
	s.runner.Tick(dt)
}

// Query lists live entities carrying every named component, in creation order.
func (s *Simulation) Query(names ...string) []ecs.EntityID {
	return s.state.ECS.Query(names...)
}

// State exposes the typed stores for presenters. Read it only from the loop
// goroutine, i.e. inside Present.
func (s *Simulation) State() *game.State { return s.state }

// WorldMap returns the static terrain and path.
func (s *Simulation) WorldMap() *world.World { return s.state.World }

// Player is the player singleton entity.
func (s *Simulation) Player() ecs.EntityID { return s.state.Player }

// Factories lists the tower factory entities in creation order.
func (s *Simulation) Factories() []ecs.EntityID { return s.state.Factories.IDs() }

// PlaceTower queues a request to build factory's tower at (x, y) on the next
// tick. Safe to call from any goroutine.
func (s *Simulation) PlaceTower(factory ecs.EntityID, x, y int) error {
	select {
	case s.requests <- event.TowerCreated{Factory: factory, X: x, Y: y}:
		return nil
	default:
		return ErrRequestQueueFull
	}
}

// Hover queues a move of factory's preview to (x, y). Safe to call from any
// goroutine; (-1, -1) hides the preview.
func (s *Simulation) Hover(factory ecs.EntityID, x, y int) error {
	select {
	case s.hovers <- event.FactoryHover{Factory: factory, X: x, Y: y}:
		return nil
	default:
		return ErrRequestQueueFull
	}
}

// AddPresenter registers a presenter for the output phase. Call before the
// loop starts.
func (s *Simulation) AddPresenter(p system.Presenter) { s.output.Add(p) }

// Outcome reports Defeat once the player's health is gone and Victory once
// the wave is exhausted and no monster is left.
func (s *Simulation) Outcome() Outcome {
	if s.state.Over() {
		return Defeat
	}
	if s.generator.Done() && s.state.MonsterInfos.Len() == 0 {
		return Victory
	}
	return Running
}

func (s *Simulation) Ticks() uint64      { return s.ticks }
func (s *Simulation) Seed() int64        { return s.seed }
func (s *Simulation) MatchID() uuid.UUID { return s.matchID }

// FlushJournal writes buffered journal entries, if a journal is attached.
func (s *Simulation) FlushJournal(ctx context.Context) error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Flush(ctx)
}
