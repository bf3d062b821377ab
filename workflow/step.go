package workflow

import "github.com/flowmind/agentgraph/agent"

// StepDef is one node of a workflow: a name, the agent class that runs it,
// the names of the steps it depends on, and an optional per-step retry
// override. Retries takes effect only when set through the Retries
// StepOption (see HasRetryOverride), in which case zero means no retries;
// otherwise the executor's global retry count applies.
type StepDef struct {
	Name      string
	Agent     agent.Class
	DependsOn []string
	Retries   int
	hasRetry  bool
}

// HasRetryOverride reports whether this step set its own Retries via the
// Retries StepOption, as opposed to inheriting the executor's default.
func (s *StepDef) HasRetryOverride() bool { return s.hasRetry }

// StepOption configures a StepDef at declaration time inside a Builder's
// Step call.
type StepOption func(*StepDef)

// After declares the names of steps this step depends on. Calling After
// more than once on the same step is additive.
func After(stepNames ...string) StepOption {
	return func(s *StepDef) {
		s.DependsOn = append(s.DependsOn, stepNames...)
	}
}

// Retries overrides the executor's global retry count for this one step.
func Retries(n int) StepOption {
	return func(s *StepDef) {
		s.Retries = n
		s.hasRetry = true
	}
}
