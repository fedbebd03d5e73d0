package statecheck

import "statecheck/gen"

// The shrink search works in two phases. The delete phase walks a cursor over
// the sequence, excluding one command per step; removing whole commands is
// the largest and cheapest reduction, so it runs to exhaustion first. The
// shrink-command phase then walks the surviving commands and delegates to
// each element's own local Simplify. The search is greedy and strictly
// sequential: every step is either accepted or reverted (Complicate) before
// the next one is attempted.
//
// Excluded positions are never compacted: indices stay stable so that a
// reverted deletion can re-include exactly the position it removed.
type shrinkPhase int

const (
	phaseDelete shrinkPhase = iota
	phaseShrinkCommand
	phaseDone
)

type shrinkStep struct {
	phase shrinkPhase
	index int
}

// sequenceTree holds one generated command sequence together with its shrink
// state. Elements are created once, during generation; shrinking only toggles
// inclusion or mutates an element's local shrink state.
type sequenceTree[C, R any] struct {
	elements []gen.Tree[C]
	included []bool
	model    StateMachine[C, R]

	step shrinkStep
	prev *shrinkStep

	// minIncluded is the floor for the number of retained commands; the
	// delete phase refuses to go below it.
	minIncluded    int
	shrinkCommands bool
}

func (t *sequenceTree[C, R]) numIncluded() int {
	n := 0
	for _, in := range t.included {
		if in {
			n++
		}
	}
	return n
}

// Current materializes the sequence in its present shrink state: the included
// commands, in their original relative order, paired with the trial's model.
func (t *sequenceTree[C, R]) Current() *CommandSequence[C, R] {
	commands := make([]C, 0, t.numIncluded())
	for i, element := range t.elements {
		if t.included[i] {
			commands = append(commands, element.Current())
		}
	}
	t.model.Reset()
	return &CommandSequence[C, R]{
		Commands: commands,
		model:    t.model,
	}
}

// Simplify attempts one reduction step and reports whether a strictly smaller
// candidate was produced. Once it returns false the search is exhausted and
// every later call returns false as well.
func (t *sequenceTree[C, R]) Simplify() bool {
	if t.step.phase == phaseDelete {
		if t.step.index >= len(t.elements) || t.numIncluded() <= t.minIncluded {
			if t.shrinkCommands {
				t.step = shrinkStep{phase: phaseShrinkCommand, index: 0}
			} else {
				t.step = shrinkStep{phase: phaseDone}
			}
		} else {
			t.included[t.step.index] = false
			prev := t.step
			t.prev = &prev
			t.step.index++
			return true
		}
	}

	for t.step.phase == phaseShrinkCommand {
		i := t.step.index
		if i >= len(t.elements) {
			t.step = shrinkStep{phase: phaseDone}
			break
		}
		if !t.included[i] {
			t.step.index++
			continue
		}
		if t.elements[i].Simplify() {
			prev := t.step
			t.prev = &prev
			return true
		}
		t.step.index++
	}

	return false
}

// Complicate undoes the most recently accepted Simplify step, used when a
// reduced candidate turned out not to fail any more. A reverted deletion
// re-includes its position; a reverted local simplification delegates to the
// element, which may allow further complication on later calls.
func (t *sequenceTree[C, R]) Complicate() bool {
	if t.prev == nil {
		return false
	}
	switch t.prev.phase {
	case phaseDelete:
		t.included[t.prev.index] = true
		t.prev = nil
		return true
	case phaseShrinkCommand:
		if t.elements[t.prev.index].Complicate() {
			return true
		}
		t.prev = nil
		return false
	}
	return false
}
