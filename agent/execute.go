package agent

import (
	"context"
	"time"

	"github.com/flowmind/agentgraph/schema"
)

// Result is the outcome of a single successful Execute call: the agent's
// output, the class that produced it, and the wall-clock duration of the
// inner Call.
type Result struct {
	Output   schema.Value
	Class    Class
	Duration time.Duration
}

// Execute validates input against the declared input schema, invokes
// Call, times it, and validates the returned value against the declared
// output schema. It never retries and never recovers a panic from Call —
// retries are the workflow executor's job (package executor), not the
// agent executor's; a panicking Call is a programming error that should
// surface, not be silently absorbed.
func Execute(ctx context.Context, a Class, input schema.Value) (*Result, error) {
	inSchema := a.InputSchema()
	if inSchema.IsZero() {
		return nil, newInvalidInput("No input schema declared on %T", a)
	}
	outSchema := a.OutputSchema()
	if outSchema.IsZero() {
		return nil, newInvalidOutput("No output schema declared on %T", a)
	}
	if !inSchema.Accepts(input) {
		return nil, newInvalidInput("Expected %s, got %s", inSchema.Name(), schema.TypeNameOf(input))
	}

	start := time.Now()
	output, err := a.Call(ctx, input)
	duration := time.Since(start)
	if err != nil {
		return nil, err
	}

	if !outSchema.Accepts(output) {
		return nil, newInvalidOutput("Expected %s, got %s", outSchema.Name(), schema.TypeNameOf(output))
	}

	return &Result{Output: output, Class: a, Duration: duration}, nil
}
