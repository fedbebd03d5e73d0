package statecheck

import (
	"math/rand"

	"statecheck/gen"
)

// newSequenceTree builds one candidate command sequence by repeatedly
// sampling from the model's currently legal commands. The model evolves with
// every drawn command so that each draw is conditioned on the trajectory so
// far; it is reset again before the tree is handed to the runner.
func newSequenceTree[C, R any](rng *rand.Rand, model StateMachine[C, R], cfg config) (*sequenceTree[C, R], error) {
	size := cfg.minSize
	if cfg.maxSize > cfg.minSize {
		size += rng.Intn(cfg.maxSize - cfg.minSize + 1)
	}

	model.Reset()
	elements := make([]gen.Tree[C], 0, size)
	for len(elements) < size {
		choices := model.Commands()
		weights := make([]int, len(choices))
		for i, c := range choices {
			weights[i] = c.Weight
		}
		idx, err := gen.WeightedIndex(rng, weights)
		if err != nil {
			return nil, &GenerationError{Err: err}
		}
		element, err := choices[idx].Gen.NewTree(rng)
		if err != nil {
			return nil, &GenerationError{Err: err}
		}
		model.NextState(element.Current())
		elements = append(elements, element)
	}
	model.Reset()

	included := make([]bool, len(elements))
	for i := range included {
		included[i] = true
	}
	return &sequenceTree[C, R]{
		elements: elements,
		included: included,
		model:    model,

		step: shrinkStep{phase: phaseDelete, index: 0},

		// The configured minimum sequence size governs generation; the
		// delete phase keeps at least one command so that a failing
		// sequence never shrinks to nothing.
		minIncluded:    1,
		shrinkCommands: cfg.shrinkCommands,
	}, nil
}
