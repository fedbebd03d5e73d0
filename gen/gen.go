// Package gen provides the leaf value generators used to produce command
// arguments, together with their local shrink state.
//
// A Strategy describes how to draw one value from a random source. The result
// of a draw is a Tree: the drawn value plus the ability to step it towards a
// simpler value (Simplify) and to step back when a simplification went too
// far (Complicate). Trees are stateful and not safe for concurrent use.
package gen

import (
	"errors"
	"fmt"
	"math/rand"
)

// Tree is a single generated value together with its shrink state.
type Tree[V any] interface {
	// Current returns the value in its present shrink state.
	Current() V

	// Simplify attempts to move the value one step towards a simpler one.
	// It returns false when no simpler value is available.
	Simplify() bool

	// Complicate undoes the most recent Simplify step, restoring the value
	// that was current before it. It returns false when there is no step
	// left to undo.
	Complicate() bool
}

// Strategy produces value trees from a random source.
type Strategy[V any] interface {
	NewTree(rng *rand.Rand) (Tree[V], error)
}

var (
	// ErrNoChoices is returned when a draw is attempted from an empty set.
	ErrNoChoices = errors.New("gen: no choices to draw from")

	// ErrNonPositiveWeight is returned when a weight table contains a zero
	// or negative entry.
	ErrNonPositiveWeight = errors.New("gen: weights must be positive")
)

// WeightedIndex draws one index from the cumulative distribution described by
// weights. All weights must be positive and at least one entry must be
// present.
func WeightedIndex(rng *rand.Rand, weights []int) (int, error) {
	if len(weights) == 0 {
		return 0, ErrNoChoices
	}
	total := 0
	for i, w := range weights {
		if w <= 0 {
			return 0, fmt.Errorf("%w: weight %d at index %d", ErrNonPositiveWeight, w, i)
		}
		total += w
	}
	r := rng.Intn(total)
	for i, w := range weights {
		if r < w {
			return i, nil
		}
		r -= w
	}
	return len(weights) - 1, nil
}
