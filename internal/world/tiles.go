package world

import "math/rand"

// Cosmetic variant weights for terrain tiles.
var (
	GrassVariants = []Weighted{{3, 70}, {2, 20}, {1, 10}}
	DirtVariants  = []Weighted{{2, 50}, {1, 25}, {3, 5}}
)

// Decorate picks a cosmetic variant for every square of w, grass and dirt
// drawing from their own distributions. The result is indexed like w.Map.
func Decorate(w *World, r *rand.Rand) [][]int {
	grass := NewDistribution(GrassVariants)
	dirt := NewDistribution(DirtVariants)

	out := make([][]int, len(w.Map))
	for x := range w.Map {
		out[x] = make([]int, len(w.Map[x]))
		for y, c := range w.Map[x] {
			switch c {
			case Dirt:
				out[x][y] = dirt.Next(r)
			default:
				out[x][y] = grass.Next(r)
			}
		}
	}
	return out
}
