package world

import "math"

// Distance is the Euclidean distance between two squares.
func Distance(x1, y1, x2, y2 int) float64 {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return math.Sqrt(dx*dx + dy*dy)
}

// InRange is the shared range test for towers and radius queries:
// min < distance <= max.
func InRange(distance, min, max float64) bool {
	return distance <= max && distance > min
}

// CellsInRange lists the on-map squares around (x, y) that pass InRange,
// scanning rows then depth.
func (w *World) CellsInRange(x, y int, min, max float64) [][2]int {
	reach := int(math.Ceil(max))
	out := make([][2]int, 0, 4*reach*reach)
	for cx := x - reach; cx <= x+reach; cx++ {
		for cy := y - reach; cy <= y+reach; cy++ {
			if !w.Contains(cx, cy) {
				continue
			}
			if InRange(Distance(x, y, cx, cy), min, max) {
				out = append(out, [2]int{cx, cy})
			}
		}
	}
	return out
}
