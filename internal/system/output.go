package system

import (
	"time"

	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/game"
)

// Presenter consumes the tick's state before cleanup: positions with an
// OldPosition moved, InfoChanged entities need their panels refreshed,
// Destroy entities are leaving play. Presenters must not mutate the state.
type Presenter interface {
	Present(state *game.State)
}

// OutputSystem hands the tick to every presenter, then delivers the tick's
// events to bus subscribers. Phase 4 (Output).
type OutputSystem struct {
	state      *game.State
	presenters []Presenter
}

func NewOutputSystem(state *game.State, presenters ...Presenter) *OutputSystem {
	return &OutputSystem{state: state, presenters: presenters}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

// Add registers another presenter.
func (s *OutputSystem) Add(p Presenter) {
	s.presenters = append(s.presenters, p)
}

func (s *OutputSystem) Update(_ time.Duration) {
	for _, p := range s.presenters {
		p.Present(s.state)
	}
	s.state.Bus.DispatchAll()
}
