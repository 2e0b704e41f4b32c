package world

import "go.uber.org/zap"

// Cell is the terrain kind of one map square.
type Cell uint8

const (
	Grass Cell = 0
	Dirt  Cell = 1 // walkable path
)

// PathNode is one square of the monster route. X is the row, Y is the
// depth within the row. Nodes are immutable once Generate returns.
type PathNode struct {
	X, Y int
	Prev *PathNode
	Next *PathNode
}

// Path is a read-only view over the node chain.
type Path struct {
	Start *PathNode
	End   *PathNode
}

// Len counts the nodes from Start to End.
func (p *Path) Len() int {
	n := 0
	for node := p.Start; node != nil; node = node.Next {
		n++
	}
	return n
}

// Nodes returns the chain as a slice, Start first.
func (p *Path) Nodes() []*PathNode {
	out := make([]*PathNode, 0, 64)
	for node := p.Start; node != nil; node = node.Next {
		out = append(out, node)
	}
	return out
}

// NewPath links the given coordinates into a path. Used for hand-built
// routes; Generate builds the standard one.
func NewPath(coords ...[2]int) *Path {
	p := &Path{}
	var last *PathNode
	for _, c := range coords {
		node := &PathNode{X: c[0], Y: c[1], Prev: last}
		if last != nil {
			last.Next = node
		} else {
			p.Start = node
		}
		last = node
	}
	p.End = last
	return p
}

// World is the static terrain grid plus the monster route. Map is indexed
// Map[x][y]. Created once, never mutated.
type World struct {
	Map  [][]Cell
	Path *Path
}

// Size is the edge length of the square map.
func (w *World) Size() int { return len(w.Map) }

// Contains reports whether (x, y) lies on the map.
func (w *World) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < len(w.Map) && y < len(w.Map[x])
}

// CellAt returns the terrain at (x, y); off-map squares read as grass.
func (w *World) CellAt(x, y int) Cell {
	if !w.Contains(x, y) {
		return Grass
	}
	return w.Map[x][y]
}

// GenConfig holds the fixed boundary coordinates of the generated route.
type GenConfig struct {
	MapSize int
	StartX  int
	StartY  int
	EndX    int
	EndY    int
}

// DefaultGenConfig is the standard 39x39 board.
func DefaultGenConfig() GenConfig {
	return GenConfig{MapSize: 39, StartX: 0, StartY: 12, EndX: 39, EndY: 20}
}

// Generate walks from (StartX, StartY) along X until EndX, stepping one
// square deeper in Y after every node whose X is a multiple of 4 (never twice
// in a row, never past EndY). Every visited square becomes Dirt.
func Generate(cfg GenConfig, log *zap.Logger) *World {
	x, y := cfg.StartX, cfg.StartY
	path := &Path{}
	var last *PathNode
	deep := false
	iterations := 0

	for cfg.EndX > x {
		current := &PathNode{X: x, Y: y}
		if last != nil {
			last.Next = current
			current.Prev = last
		} else {
			path.Start = current
		}

		if !deep && x%4 == 0 && y != cfg.EndY {
			y++
			deep = true
		} else {
			x++
			deep = false
		}

		last = current
		iterations++
	}
	path.End = last

	grid := make([][]Cell, cfg.MapSize)
	for i := range grid {
		grid[i] = make([]Cell, cfg.MapSize)
	}

	w := &World{Map: grid, Path: path}
	furled := 0
	for node := path.End; node != nil; node = node.Prev {
		if w.Contains(node.X, node.Y) {
			grid[node.X][node.Y] = Dirt
		}
		furled++
	}

	log.Debug("world generated",
		zap.Int("iterations", iterations),
		zap.Int("furled", furled),
		zap.Int("map_size", cfg.MapSize))
	return w
}
