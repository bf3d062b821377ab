package agentgraph

import "github.com/flowmind/agentgraph/executor"

// Re-exported executor types.
type (
	Executor       = executor.Executor
	Option         = executor.Option
	StepResult     = executor.StepResult
	WorkflowResult = executor.WorkflowResult
	StepFailedError = executor.StepFailedError
)

// Re-exported executor constructors and options.
var (
	NewExecutor   = executor.New
	WithRunStore  = executor.WithRunStore
	WithRetries   = executor.WithRetries
	WithLogger    = executor.WithLogger
	WithTracer    = executor.WithTracer
	WithAgents    = executor.WithAgents
)
