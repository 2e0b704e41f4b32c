package system

import (
	"time"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/event"
	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/game"
	"go.uber.org/zap"
)

// InputSystem drains requests queued by presenters between ticks. Tower
// placements become this tick's TowerCreated events; hovers move the
// factory preview and leave an OldPosition for redraw. Phase 0 (Input).
type InputSystem struct {
	state      *game.State
	requests   <-chan event.TowerCreated
	hovers     <-chan event.FactoryHover
	maxPerTick int
}

func NewInputSystem(state *game.State, requests <-chan event.TowerCreated, hovers <-chan event.FactoryHover, maxPerTick int) *InputSystem {
	if maxPerTick <= 0 {
		maxPerTick = 16
	}
	return &InputSystem{state: state, requests: requests, hovers: hovers, maxPerTick: maxPerTick}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case h := <-s.hovers:
			s.hover(h)
		default:
			goto doneHover
		}
	}
doneHover:

	for i := 0; i < s.maxPerTick; i++ {
		select {
		case req := <-s.requests:
			event.Emit(s.state.Bus, req)
		default:
			return
		}
	}
}

func (s *InputSystem) hover(h event.FactoryHover) {
	if !s.state.Factories.Has(h.Factory) {
		s.state.Log.Error("hover on entity without a tower factory", zap.Stringer("entity", h.Factory))
		return
	}
	pos, ok := s.state.Positions.Get(h.Factory)
	if !ok {
		pos = &component.Position{X: component.Offscreen, Y: component.Offscreen}
		s.state.Positions.Set(h.Factory, pos)
	}
	if pos.X == h.X && pos.Y == h.Y {
		return
	}
	s.state.OldPositions.Set(h.Factory, &component.OldPosition{X: pos.X, Y: pos.Y})
	pos.X, pos.Y = h.X, h.Y
}
