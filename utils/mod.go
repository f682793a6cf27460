package utils

import "golang.org/x/exp/rand"

// Choice picks a uniformly random element. Panics on an empty slice.
func Choice[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}

// ArgMax returns the indices of every maximal value, in order.
func ArgMax(values []float64) []int {
	var best []int
	for i, v := range values {
		switch {
		case len(best) == 0 || v > values[best[0]]:
			best = append(best[:0], i)
		case v == values[best[0]]:
			best = append(best, i)
		}
	}
	return best
}
