package executor

import (
	"time"

	"github.com/flowmind/agentgraph/schema"
)

// StepResult is the recorded outcome of one step within a run.
type StepResult struct {
	Name     string
	Output   schema.Value
	Err      error
	Attempts int
	Duration time.Duration

	// ErrorDetails holds a short backtrace captured at the point the
	// step's final attempt failed (empty when the step succeeded).
	ErrorDetails string
}

// WorkflowResult is what Run returns: the workflow's final per-step
// outputs, keyed by step name, plus the run's durable directory if a
// store.RunStore was configured.
type WorkflowResult struct {
	RunDir   string
	Steps    map[string]*StepResult
	Duration time.Duration

	// Success is false when any step failed after exhausting its retries.
	Success bool
	// FailedStep names the failed step that sorts first by name among the
	// failures of the wave that stopped scheduling; empty on success.
	FailedStep string
	// Error is the formatted "step %q failed: %v" message for FailedStep;
	// empty on success.
	Error string
	// ErrorDetails is FailedStep's captured backtrace; empty on success.
	ErrorDetails string
}

// Output returns the output of a named step, and whether that step ran and
// succeeded.
func (r *WorkflowResult) Output(stepName string) (schema.Value, bool) {
	step, ok := r.Steps[stepName]
	if !ok || step.Err != nil {
		return nil, false
	}
	return step.Output, true
}
