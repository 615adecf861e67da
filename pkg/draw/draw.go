// Package draw provides the weighted-sampling primitive shared by all
// box draws. A uniform draw is the equal-weight case.
package draw

import (
	"errors"
	"math/rand"
)

var ErrNoOptions = errors.New("draw: no selectable options")

// Weighted returns an index in [0, len(weights)) with probability
// proportional to weights[i]. Entries with weight <= 0 are never
// selected. The last selectable index is the fallback if accumulation
// ever falls short.
func Weighted(r *rand.Rand, weights []int64) (int, error) {
	var total int64
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
	}
	if total <= 0 {
		return 0, ErrNoOptions
	}
	roll := r.Int63n(total)
	var acc int64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if roll < acc {
			return i, nil
		}
	}
	return last, nil
}

// Uniform returns an index in [0, n) with equal probability.
func Uniform(r *rand.Rand, n int) (int, error) {
	if n <= 0 {
		return 0, ErrNoOptions
	}
	return r.Intn(n), nil
}
