package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain placement requests
	PhasePreUpdate               // 1: spawn monsters, build towers
	PhaseUpdate                  // 2: tower combat, movement
	PhasePostUpdate              // 3: apply damage
	PhaseOutput                  // 4: presenters read this tick's state
	PhasePersist                 // 5: journal flush
	PhaseCleanup                 // 6: strip transients, destroy queued entities
)

var phaseNames = [...]string{"input", "pre-update", "update", "post-update", "output", "persist", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
