package agent

import "fmt"

// InvalidInputError is returned by Execute when an agent has not declared
// an input schema, or when the supplied input does not match the declared
// schema.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func newInvalidInput(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// InvalidOutputError is returned by Execute when an agent has not declared
// an output schema, or when the value it returned from Call does not match
// the declared output schema.
type InvalidOutputError struct {
	Message string
}

func (e *InvalidOutputError) Error() string { return e.Message }

func newInvalidOutput(format string, args ...interface{}) error {
	return &InvalidOutputError{Message: fmt.Sprintf(format, args...)}
}

// NotImplementedError reports an agent class name that a dynamic agent
// construction path could not resolve to a real implementation. Go's
// Class interface makes it impossible to hold an instance with no Call
// method, so this never arises from Execute the way it would in a
// dynamically-typed implementation; instead it surfaces from
// workflow.LoadYAML, whose Registry maps agent names to Class values and
// whose YAML can name an agent that was never registered.
type NotImplementedError struct {
	ClassName string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("agent class %s has no call implementation", e.ClassName)
}
