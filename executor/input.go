package executor

import (
	"github.com/flowmind/agentgraph/schema"
	"github.com/flowmind/agentgraph/workflow"
)

// buildStepInput assembles the value a step is invoked with: the
// workflow's initial input for a zero-dependency step, a single
// dependency's output unwrapped for a one-dependency step, or a
// workflow.MergedInput keyed by step name when a step fans in from more
// than one dependency. Unwrapping the single-dependency case keeps the
// common linear-chain workflow from forcing every agent to deal with a
// map just to read its one upstream value.
func buildStepInput(step *workflow.StepDef, initial schema.Value, outputs map[string]schema.Value) schema.Value {
	switch len(step.DependsOn) {
	case 0:
		return initial
	case 1:
		return outputs[step.DependsOn[0]]
	default:
		merged := make(workflow.MergedInput, len(step.DependsOn))
		for _, dep := range step.DependsOn {
			merged[dep] = outputs[dep]
		}
		return merged
	}
}
