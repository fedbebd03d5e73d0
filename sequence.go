package statecheck

import (
	"fmt"
	"strings"
)

// CommandSequence is an ordered list of commands paired with the reference
// model that predicts their outcomes. Order is semantically significant and
// is never changed.
type CommandSequence[C, R any] struct {
	Commands []C

	model StateMachine[C, R]
}

// Run replays the sequence against the given system. The model is reset to
// its initial state, then for each command in order the system executes it,
// the model checks the observed result, and the model advances. The first
// failure stops the replay: the validity of later commands is conditioned on
// earlier ones having succeeded.
func (cs *CommandSequence[C, R]) Run(sut SystemUnderTest[C, R]) error {
	cs.model.Reset()
	for _, cmd := range cs.Commands {
		res, err := sut.Run(cmd)
		if err != nil {
			return &SystemError{Command: fmt.Sprintf("%v", cmd), Err: err}
		}
		if err := cs.model.Postcondition(cmd, res); err != nil {
			return err
		}
		cs.model.NextState(cmd)
	}
	return nil
}

// Len returns the number of commands in the sequence.
func (cs *CommandSequence[C, R]) Len() int { return len(cs.Commands) }

func (cs *CommandSequence[C, R]) String() string {
	var b strings.Builder
	for i, cmd := range cs.Commands {
		fmt.Fprintf(&b, "%4d: %v\n", i+1, cmd)
	}
	return b.String()
}
