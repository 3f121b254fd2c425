package fraction

import "fmt"

// ParameterError reports a parameter that fails its precondition, raised
// before the offending operation does any work.
type ParameterError struct {
	Name   string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Name, e.Reason)
}

// UninitializedInputError reports a run invoked before its required inputs
// were supplied.
type UninitializedInputError struct {
	Input string
}

func (e *UninitializedInputError) Error() string {
	return fmt.Sprintf("cannot run: %s has not been initialized", e.Input)
}
