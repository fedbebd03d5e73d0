package statecheck

import "fmt"

// PostconditionError reports that the model and the system under test
// disagree on the outcome of a command.
type PostconditionError struct {
	Command  string
	Expected string
	Actual   string
}

// NewPostconditionError formats the command, the model's expected result and
// the observed result with %v and returns the error a model's Postcondition
// should produce on a mismatch.
func NewPostconditionError(command, expected, actual any) *PostconditionError {
	return &PostconditionError{
		Command:  fmt.Sprintf("%v", command),
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
	}
}

func (e *PostconditionError) Error() string {
	return fmt.Sprintf("postcondition does not hold: command: %s, expected result: %s, actual result: %s",
		e.Command, e.Expected, e.Actual)
}

// SystemError reports that the system under test failed while executing a
// command. It wraps the system's own error.
type SystemError struct {
	Command string
	Err     error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("system under test failed: command: %s: %v", e.Command, e.Err)
}

func (e *SystemError) Unwrap() error { return e.Err }

// GenerationError reports that no valid command sequence could be built,
// typically because a model returned no commands or a non-positive weight.
// Generation errors abort the plan: with no valid sequence there is nothing
// to run or shrink.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating command sequence: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
