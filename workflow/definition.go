package workflow

import "github.com/flowmind/agentgraph/agent"

// Definition is a validated, immutable workflow: a set of named steps with
// their dependencies fully resolved and their execution waves precomputed.
// It is built once by Define and never mutated afterward — the executor
// reads it concurrently across many runs without locking.
type Definition struct {
	Name  string
	Steps map[string]*StepDef
	order []string   // topological order, stable given the same Builder calls
	waves [][]string // steps grouped by execution wave

	buildErr error // set by Builder.Step on a duplicate name; checked by Define
}

// Order returns the steps in topological order.
func (d *Definition) Order() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Waves returns the steps grouped into execution waves: wave 0 has no
// dependencies, wave N depends only on steps in waves < N. Every step in a
// wave is eligible to run concurrently once the workflow has reached that
// wave.
func (d *Definition) Waves() [][]string {
	out := make([][]string, len(d.waves))
	for i, wave := range d.waves {
		out[i] = append([]string{}, wave...)
	}
	return out
}

// Builder accumulates steps while a workflow is being declared. It is only
// valid for the duration of the callback passed to Define.
type Builder struct {
	def *Definition
}

// Step registers a named step running the given agent class, configured by
// zero or more StepOptions (After, Retries). Registering the same name
// twice is a build-time error surfaced by Define, not a panic, so a
// workflow declared from data (e.g. the YAML loader) can report it
// cleanly.
func (b *Builder) Step(name string, agentClass agent.Class, opts ...StepOption) {
	step := &StepDef{Name: name, Agent: agentClass}
	for _, opt := range opts {
		opt(step)
	}
	if _, exists := b.def.Steps[name]; exists {
		b.def.buildErr = &DuplicateStepError{Step: name}
		return
	}
	b.def.Steps[name] = step
}

// Define builds and validates a workflow: it runs build against a fresh
// Builder, then checks for duplicate steps, missing dependencies, and
// cycles (via three-state DFS), and finally computes a topological order
// and execution waves (via Kahn's algorithm). The returned Definition is
// safe to share and run concurrently across many workflow executions.
func Define(name string, build func(b *Builder)) (*Definition, error) {
	def := &Definition{Name: name, Steps: make(map[string]*StepDef)}
	builder := &Builder{def: def}

	build(builder)

	if def.buildErr != nil {
		return nil, def.buildErr
	}

	if len(def.Steps) == 0 {
		return nil, &EmptyWorkflowError{Name: name}
	}

	g := newDAG()
	for stepName, step := range def.Steps {
		g.addNode(stepName, step.DependsOn)
	}

	if missing := g.missingDependencies(); len(missing) > 0 {
		first := missing[0]
		return nil, &MissingDependencyError{Step: first.node, DependsOn: first.dependsOn}
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, &CircularDependencyError{Path: cycle}
	}

	def.order = g.topologicalOrder()
	def.waves = g.levels()

	return def, nil
}
