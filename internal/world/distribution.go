package world

import "math/rand"

// Weighted pairs a value with its relative draw weight.
type Weighted struct {
	Value  int
	Weight int
}

// Distribution draws values with probability proportional to their weight.
type Distribution struct {
	total   int
	buckets []int // cumulative weight bound per value
	values  []int
}

func NewDistribution(entries []Weighted) *Distribution {
	d := &Distribution{
		buckets: make([]int, 0, len(entries)),
		values:  make([]int, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Weight < 0 {
			continue
		}
		d.total += e.Weight
		d.buckets = append(d.buckets, d.total)
		d.values = append(d.values, e.Value)
	}
	return d
}

// Next returns the first value whose cumulative bound exceeds a uniform
// draw in [0, total). Zero-weight entries share their predecessor's bound
// and can never be selected. Falls back to the last value.
func (d *Distribution) Next(r *rand.Rand) int {
	if len(d.values) == 0 {
		return 0
	}
	selection := d.values[len(d.values)-1]
	if d.total <= 0 {
		return selection
	}
	draw := r.Intn(d.total)
	for i, bound := range d.buckets {
		if draw < bound {
			selection = d.values[i]
			break
		}
	}
	return selection
}
