package component

import (
	"time"

	"github.com/tdsim/tdsim/internal/world"
)

// Offscreen is the position of entities that are not on the map: monsters
// that walked off the end of the path, factories with no hover target.
const Offscreen = -1

// Position is the current map square.
type Position struct {
	X, Y int
}

func (Position) Name() string { return NamePosition }

// OffMap reports whether the position is the off-map sentinel.
func (p Position) OffMap() bool { return p.X == Offscreen && p.Y == Offscreen }

// OldPosition is the square left by the most recent move. Transient.
type OldPosition struct {
	X, Y int
}

func (OldPosition) Name() string { return NameOldPosition }

// PathState is a monster's marching state. Speed is milliseconds per hop,
// Elapsed the time accumulated toward the next hop. Node is nil once the
// monster has left the last square.
type PathState struct {
	Speed   int
	Node    *world.PathNode
	Elapsed time.Duration
}

// HopTime is Speed as a duration.
func (p *PathState) HopTime() time.Duration {
	return time.Duration(p.Speed) * time.Millisecond
}

func (PathState) Name() string { return NamePathState }

// Drawable is the presenter's asset handle.
type Drawable struct {
	Image string
	Glyph rune
}

func (Drawable) Name() string { return NameDrawable }
