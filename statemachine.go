// Package statecheck is a model-based property-testing engine. It generates
// randomized sequences of commands, executes them against a real system under
// test while a reference model replays them, checks each observed result
// against the model's postconditions, and on disagreement searches for a
// minimal reproducing sequence.
package statecheck

import "statecheck/gen"

// Choice is one command shape the model currently allows. The weight biases
// how often the generator samples this shape relative to the others; it must
// be positive.
type Choice[C any] struct {
	Weight int
	Gen    gen.Strategy[C]
}

// Weighted pairs a sampling weight with a command strategy.
func Weighted[C any](weight int, s gen.Strategy[C]) Choice[C] {
	return Choice[C]{Weight: weight, Gen: s}
}

// StateMachine is the reference model of the system under test. C is the
// command type, R the result type of running a command against the real
// system.
//
// The engine drives one instance per trial: Commands and NextState while
// generating a sequence, then Reset followed by Postcondition/NextState for
// every replay of that sequence. Reset must restore the canonical initial
// state with no effects observable outside the model.
type StateMachine[C, R any] interface {
	// Reset returns the model to its canonical initial state.
	Reset()

	// Commands returns the command shapes that are legal in the current
	// state, each paired with a positive sampling weight.
	Commands() []Choice[C]

	// Postcondition reports whether res is consistent with applying cmd in
	// the current state. A mismatch is reported as a *PostconditionError.
	Postcondition(cmd C, res R) error

	// NextState advances the model by applying cmd.
	NextState(cmd C)
}

// SystemUnderTest is the real system being exercised. Run applies one command
// and returns the system's response. A returned error fails the trial and is
// attributed to cmd.
//
// Run is treated as a synchronous, uninterruptible call: the engine has no
// timeout or cancellation of its own, so a hung Run hangs the trial. Timeout
// policy, if needed, belongs in the adapter implementing this interface.
type SystemUnderTest[C, R any] interface {
	Run(cmd C) (R, error)
}
