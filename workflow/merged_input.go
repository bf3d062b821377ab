package workflow

import "github.com/flowmind/agentgraph/schema"

// MergedInput is what a step with more than one dependency receives: the
// outputs of each of its dependencies, keyed by step name. A step with a
// single dependency receives that dependency's output directly (unwrapped)
// so the common case — one agent feeding the next — never forces an agent
// author to deal with a map. A step with zero dependencies receives the
// workflow's initial input directly.
type MergedInput map[string]schema.Value

// From looks up a named dependency's output. The second return value is
// false if no dependency by that name contributed to this input.
func (m MergedInput) From(stepName string) (schema.Value, bool) {
	v, ok := m[stepName]
	return v, ok
}
