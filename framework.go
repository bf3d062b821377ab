// Package agentgraph is a lightweight meta-module that re-exports the
// pieces most callers need from a single import. Larger programs can still
// import github.com/flowmind/agentgraph/{agent,workflow,executor,store,
// schema,core,resilience} directly for the full surface; this package
// exists so a small program can write one import and go.
package agentgraph

import (
	"context"

	"github.com/flowmind/agentgraph/agent"
	"github.com/flowmind/agentgraph/executor"
	"github.com/flowmind/agentgraph/schema"
	"github.com/flowmind/agentgraph/workflow"
)

// RunWorkflow builds the workflow described by build and executes it
// against initial in one call. It is a convenience for simple, one-shot
// programs; opts (retries, a run store, a logger, a tracer, agent
// overrides) are passed through to executor.New unchanged.
func RunWorkflow(ctx context.Context, name string, build func(b *workflow.Builder), initial schema.Value, opts ...executor.Option) (*executor.WorkflowResult, error) {
	def, err := workflow.Define(name, build)
	if err != nil {
		return nil, err
	}
	return executor.New(def, opts...).Run(ctx, initial)
}

// RunDefinition executes an already-built workflow.Definition, for callers
// that built it once (e.g. from YAML via workflow.LoadYAML) and run it
// repeatedly.
func RunDefinition(ctx context.Context, def *workflow.Definition, initial schema.Value, opts ...executor.Option) (*executor.WorkflowResult, error) {
	return executor.New(def, opts...).Run(ctx, initial)
}

// Re-exported agent contract types, so a single-file program can write
// agentgraph.Class / agentgraph.Base instead of importing the agent
// package by name too.
type (
	Class  = agent.Class
	Base   = agent.Base
	Result = agent.Result
)

// Execute re-exports agent.Execute.
var Execute = agent.Execute

// Fresh re-exports agent.Fresh.
var Fresh = agent.Fresh
