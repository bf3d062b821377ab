// Package executor runs a workflow.Definition to completion: one wave of
// goroutines per DAG level, per-step retry with exponential backoff, and
// optional durable run state. Run always starts a new run directory; it
// does not resume an earlier one (store.Run.ResumePlan only reports what a
// resume would need). Each wave spawns one goroutine per ready step — not a
// fixed-size worker pool — and a sync.WaitGroup gates the next wave.
package executor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowmind/agentgraph/agent"
	"github.com/flowmind/agentgraph/core"
	"github.com/flowmind/agentgraph/resilience"
	"github.com/flowmind/agentgraph/store"
	"github.com/flowmind/agentgraph/workflow"
)

// Executor runs one workflow.Definition. It holds no per-run state itself —
// Run keeps all per-run state in its own local variables — so one Executor is
// safe to reuse (and to call Run on concurrently) across many runs of the
// same workflow.
type Executor struct {
	def           *workflow.Definition
	globalRetries int
	runStore      *store.RunStore
	logger        core.Logger
	tracer        trace.Tracer
	sleep         resilience.Sleep
	agents        map[string]agent.Class
}

// Option configures an Executor using the functional-options idiom.
type Option func(*Executor)

// WithRunStore attaches durable run persistence. Without one, Run executes
// entirely in memory and nothing survives a crash.
func WithRunStore(s *store.RunStore) Option {
	return func(e *Executor) { e.runStore = s }
}

// WithRetries sets the default number of additional attempts for every
// step that does not declare its own workflow.Retries override.
func WithRetries(retries int) Option {
	return func(e *Executor) { e.globalRetries = retries }
}

// WithLogger sets the logger used for best-effort diagnostics (persistence
// failures, step lifecycle events). Defaults to core.NoOpLogger{}.
func WithLogger(l core.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithTracer overrides the OpenTelemetry tracer used to span each step
// execution. Defaults to the global tracer provider's tracer for this
// module, which is a safe no-op until a real SDK is configured.
func WithTracer(t trace.Tracer) Option {
	return func(e *Executor) { e.tracer = t }
}

// WithAgents overrides the agent instance used for specific steps, keyed by
// step name, on every call to Run. This is the dependency-injection hook
// for re-running the same workflow.Definition against different or mocked
// agent instances without rebuilding the Definition: a step named here
// gets the supplied instance instead of the one the Definition's Builder
// was given at build time. Steps with no entry keep using the Definition's
// own instance; see agent.Fresh for constructing an isolated instance to
// pass here when a step's agent carries no configuration beyond its
// declared schemas.
func WithAgents(agents map[string]agent.Class) Option {
	return func(e *Executor) { e.agents = agents }
}

// withSleep overrides the backoff sleep function; used by tests to avoid
// waiting on real exponential backoff delays. Unexported: production
// callers never need to fake time.
func withSleep(sleep resilience.Sleep) Option {
	return func(e *Executor) { e.sleep = sleep }
}

// New constructs an Executor for def.
func New(def *workflow.Definition, opts ...Option) *Executor {
	e := &Executor{
		def:    def,
		logger: core.NoOpLogger{},
		tracer: otel.Tracer("github.com/flowmind/agentgraph/executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) retriesFor(step *workflow.StepDef) int {
	if step.HasRetryOverride() {
		return step.Retries
	}
	return e.globalRetries
}

func (e *Executor) sleepFor(ctx context.Context) resilience.Sleep {
	if e.sleep != nil {
		return e.sleep
	}
	return resilience.RealSleep(ctx)
}

// agentFor resolves the agent instance to run step with: the WithAgents
// override for its name if one was supplied, else the instance baked into
// the workflow.Definition.
func (e *Executor) agentFor(step *workflow.StepDef) agent.Class {
	if override, ok := e.agents[step.Name]; ok {
		return override
	}
	return step.Agent
}
