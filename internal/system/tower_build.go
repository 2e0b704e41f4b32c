package system

import (
	"time"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/event"
	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/game"
	"go.uber.org/zap"
)

// TowerCreationSystem turns TowerCreated requests into towers when the player
// can pay. Unaffordable requests are dropped, never queued. Phase 1 (PreUpdate).
type TowerCreationSystem struct {
	state *game.State
}

func NewTowerCreationSystem(state *game.State) *TowerCreationSystem {
	return &TowerCreationSystem{state: state}
}

func (s *TowerCreationSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *TowerCreationSystem) Update(_ time.Duration) {
	for _, req := range event.Events[event.TowerCreated](s.state.Bus) {
		s.build(req)
	}
}

func (s *TowerCreationSystem) build(req event.TowerCreated) {
	log := s.state.Log
	factory, ok := s.state.Factories.Get(req.Factory)
	if !ok {
		log.Error("tower request on entity without a tower factory",
			zap.Stringer("entity", req.Factory),
			zap.String("component", component.NameTowerFactory))
		return
	}

	player := s.state.PlayerInfo()
	if player.Money < factory.Cost {
		log.Info("not enough money",
			zap.String("tower", factory.Kind),
			zap.Int("cost", factory.Cost),
			zap.Int("money", player.Money))
		event.Emit(s.state.Bus, event.PurchaseRejected{Kind: factory.Kind, Cost: factory.Cost, Money: player.Money})
		return
	}

	id, err := factory.Create(req.X, req.Y)
	if err != nil {
		log.Warn("tower creation failed", zap.String("tower", factory.Kind), zap.Error(err))
		return
	}
	player.Money -= factory.Cost
	s.state.MarkInfoChanged(s.state.Player)
	event.Emit(s.state.Bus, event.TowerBuilt{Entity: id, Kind: factory.Kind, X: req.X, Y: req.Y, Cost: factory.Cost})
	log.Debug("tower built",
		zap.Stringer("entity", id),
		zap.String("tower", factory.Kind),
		zap.Int("x", req.X), zap.Int("y", req.Y),
		zap.Int("money", player.Money))
}
