package statecheck

import (
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"

	"statecheck/gen"
)

// stubModel accepts any int command and never fails a postcondition.
type stubModel struct{}

func (stubModel) Reset() {}
func (stubModel) Commands() []Choice[int] {
	return []Choice[int]{Weighted(1, gen.Int(0, 100))}
}
func (stubModel) Postcondition(int, int) error { return nil }
func (stubModel) NextState(int)                {}

func newConstTree(t *testing.T, values []int, minIncluded int, shrinkCommands bool) *sequenceTree[int, int] {
	t.Helper()
	elements := make([]gen.Tree[int], 0, len(values))
	for _, v := range values {
		element, err := gen.Const(v).NewTree(nil)
		if err != nil {
			t.Fatalf("Did not expect to receive an error. Got %v", err)
		}
		elements = append(elements, element)
	}
	included := make([]bool, len(elements))
	for i := range included {
		included[i] = true
	}
	return &sequenceTree[int, int]{
		elements:       elements,
		included:       included,
		model:          stubModel{},
		step:           shrinkStep{phase: phaseDelete, index: 0},
		minIncluded:    minIncluded,
		shrinkCommands: shrinkCommands,
	}
}

func TestSimplifyComplicateRoundTripDeletion(t *testing.T) {
	tree := newConstTree(t, []int{1, 2, 3}, 1, false)

	before := tree.Current().Commands
	if !tree.Simplify() {
		t.Fatalf("Expected the first Simplify to delete a command")
	}
	after := tree.Current().Commands
	if len(after) != len(before)-1 {
		t.Errorf("Expected one command fewer. Got %v from %v", after, before)
	}
	if !tree.Complicate() {
		t.Fatalf("Expected Complicate to undo the deletion")
	}
	restored := tree.Current().Commands
	if !slices.Equal(before, restored) {
		t.Errorf("Complicate did not restore the sequence. Got %v. Expected %v", restored, before)
	}
}

func TestSimplifyComplicateRoundTripElement(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var element gen.Tree[int64]
	for {
		var err error
		element, err = gen.Int64(0, 100).NewTree(rng)
		if err != nil {
			t.Fatalf("Did not expect to receive an error. Got %v", err)
		}
		// A value above the lower bound still has a local shrink step.
		if element.Current() > 0 {
			break
		}
	}
	tree := &sequenceTree[int64, int64]{
		elements:       []gen.Tree[int64]{element},
		included:       []bool{true},
		model:          stubModel64{},
		step:           shrinkStep{phase: phaseDelete, index: 0},
		minIncluded:    1,
		shrinkCommands: true,
	}

	before := tree.Current().Commands
	// One command retained: the delete phase must hand over to the
	// shrink-command phase, which delegates to the element.
	if !tree.Simplify() {
		t.Fatalf("Expected Simplify to delegate to the element")
	}
	if tree.numIncluded() != 1 {
		t.Errorf("Element-local simplify changed the inclusion state")
	}
	if !tree.Complicate() {
		t.Fatalf("Expected Complicate to undo the element step")
	}
	restored := tree.Current().Commands
	if !slices.Equal(before, restored) {
		t.Errorf("Complicate did not restore the sequence. Got %v. Expected %v", restored, before)
	}
}

type stubModel64 struct{}

func (stubModel64) Reset() {}
func (stubModel64) Commands() []Choice[int64] {
	return []Choice[int64]{Weighted(1, gen.Int64(0, 100))}
}
func (stubModel64) Postcondition(int64, int64) error { return nil }
func (stubModel64) NextState(int64)                  {}

func TestSimplifyExhaustionIsPermanent(t *testing.T) {
	tree := newConstTree(t, []int{1, 2, 3, 4, 5}, 1, true)

	// Const elements have no local shrink steps, so the number of accepted
	// reductions is bounded by the deletable positions.
	accepted := 0
	for tree.Simplify() {
		accepted++
		if accepted > len(tree.elements) {
			t.Fatalf("Simplify exceeded the deletion bound")
		}
	}
	if accepted != 4 {
		t.Errorf("Expected 4 deletions before exhaustion. Got %d", accepted)
	}
	for i := 0; i < 3; i++ {
		if tree.Simplify() {
			t.Fatalf("Simplify succeeded after reporting exhaustion")
		}
	}
}

func TestDeletePhaseStopsWithoutCommandShrinking(t *testing.T) {
	tree := newConstTree(t, []int{1, 2, 3}, 1, false)

	for tree.Simplify() {
	}
	if tree.step.phase != phaseDone {
		t.Errorf("Expected the search to finish without entering the shrink-command phase. Got phase %v", tree.step.phase)
	}
}

func TestDeletePhaseRespectsMinimum(t *testing.T) {
	tree := newConstTree(t, []int{1, 2, 3, 4}, 2, false)

	for tree.Simplify() {
	}
	if got := tree.numIncluded(); got != 2 {
		t.Errorf("Expected 2 retained commands. Got %d", got)
	}
	seq := tree.Current()
	if !slices.Equal(seq.Commands, []int{3, 4}) {
		t.Errorf("Expected the earliest commands to be deleted first. Got %v", seq.Commands)
	}
}

func TestDeletionPreservesOrder(t *testing.T) {
	tree := newConstTree(t, []int{10, 20, 30, 40, 50}, 1, false)

	// Delete positions 0 and 2, reverting the middle one.
	if !tree.Simplify() {
		t.Fatalf("Expected a deletion at position 0")
	}
	if !tree.Simplify() {
		t.Fatalf("Expected a deletion at position 1")
	}
	if !tree.Complicate() {
		t.Fatalf("Expected the deletion at position 1 to be reverted")
	}
	if !tree.Simplify() {
		t.Fatalf("Expected a deletion at position 2")
	}

	seq := tree.Current()
	if !slices.Equal(seq.Commands, []int{20, 40, 50}) {
		t.Errorf("Survivors out of order or wrong. Got %v. Expected [20 40 50]", seq.Commands)
	}
}

func TestComplicateWithoutSimplify(t *testing.T) {
	tree := newConstTree(t, []int{1, 2}, 1, false)
	if tree.Complicate() {
		t.Errorf("Complicate succeeded with no step to undo")
	}
}

func TestFixedSequenceSize(t *testing.T) {
	cfg := newConfig(SequenceSize(7, 7), Seed(1))
	rng := rand.New(rand.NewSource(cfg.seed))
	tree, err := newSequenceTree[int, int](rng, stubModel{}, cfg)
	if err != nil {
		t.Fatalf("Did not expect to receive an error. Got %v", err)
	}
	if len(tree.elements) != 7 {
		t.Errorf("Expected exactly 7 generated commands. Got %d", len(tree.elements))
	}
	if got := tree.Current().Len(); got != 7 {
		t.Errorf("Expected a sequence of 7 commands. Got %d", got)
	}
}

func TestSequenceSizeWithinBounds(t *testing.T) {
	cfg := newConfig(SequenceSize(3, 9), Seed(2))
	for i := int64(0); i < 50; i++ {
		rng := rand.New(rand.NewSource(cfg.seed + i))
		tree, err := newSequenceTree[int, int](rng, stubModel{}, cfg)
		if err != nil {
			t.Fatalf("Did not expect to receive an error. Got %v", err)
		}
		if n := len(tree.elements); n < 3 || n > 9 {
			t.Fatalf("Sequence length %d outside of [3, 9]", n)
		}
	}
}

// sizedModel records how often the generator consulted it, to verify that the
// model trajectory advances once per drawn command.
type sizedModel struct {
	consulted int
	advanced  int
}

func (m *sizedModel) Reset() { m.consulted = 0; m.advanced = 0 }
func (m *sizedModel) Commands() []Choice[int] {
	m.consulted++
	return []Choice[int]{Weighted(1, gen.Const(m.advanced))}
}
func (m *sizedModel) Postcondition(int, int) error { return nil }
func (m *sizedModel) NextState(int)                { m.advanced++ }

func TestGenerationAdvancesModelPerCommand(t *testing.T) {
	cfg := newConfig(SequenceSize(5, 5), Seed(3))
	rng := rand.New(rand.NewSource(cfg.seed))
	tree, err := newSequenceTree[int, int](rng, &sizedModel{}, cfg)
	if err != nil {
		t.Fatalf("Did not expect to receive an error. Got %v", err)
	}
	// Each command was generated against the state left by its predecessors.
	if !slices.Equal(tree.Current().Commands, []int{0, 1, 2, 3, 4}) {
		t.Errorf("Commands not conditioned on the evolving model. Got %v", tree.Current().Commands)
	}
}
