package executor

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowmind/agentgraph/agent"
	"github.com/flowmind/agentgraph/resilience"
	"github.com/flowmind/agentgraph/schema"
	"github.com/flowmind/agentgraph/store"
	"github.com/flowmind/agentgraph/workflow"
)

type stepOutcome struct {
	name         string
	output       schema.Value
	err          error
	attempts     int
	duration     time.Duration
	errorDetails string
}

// Run executes every step of the workflow, wave by wave: all steps in one
// execution level run concurrently (one goroutine each, no pool bound),
// and the executor waits for the whole wave before starting the next one,
// since later waves may depend on any step in the waves before them. If
// any step in a wave fails after exhausting its retries, already-scheduled
// waves stop: steps still in flight in the current wave are allowed to
// finish (so their durable state is consistent), but no further wave is
// started.
func (e *Executor) Run(ctx context.Context, initial schema.Value) (*WorkflowResult, error) {
	startedAt := time.Now()

	var run *store.Run
	if e.runStore != nil {
		r, err := e.runStore.CreateRun(e.def.Name, e.def.Order(), map[string]interface{}{}, startedAt)
		if err != nil {
			e.logger.Warn("failed to create run directory", map[string]interface{}{
				"workflow": e.def.Name, "error": err.Error(),
			})
		} else {
			run = r
			if err := run.UpdateStatus(store.RunInProgress, time.Now()); err != nil {
				e.logger.Warn("failed to mark run in progress", map[string]interface{}{
					"run": run.Dir(), "error": err.Error(),
				})
			}
		}
	}

	outputs := make(map[string]schema.Value)
	results := make(map[string]*StepResult)
	var failedSteps []string
	failedErrs := make(map[string]error)
	failedDetails := make(map[string]string)

	for _, wave := range e.def.Waves() {
		if len(failedSteps) > 0 {
			break
		}

		outcomes := make(chan stepOutcome, len(wave))
		var wg sync.WaitGroup

		for _, name := range wave {
			step := e.def.Steps[name]
			input := buildStepInput(step, initial, outputs)
			instance := e.agentFor(step)

			wg.Add(1)
			go func(step *workflow.StepDef, instance agent.Class, input schema.Value) {
				defer wg.Done()
				outcomes <- e.runStep(ctx, run, step, instance, input)
			}(step, instance, input)
		}

		wg.Wait()
		close(outcomes)

		for outcome := range outcomes {
			results[outcome.name] = &StepResult{
				Name:         outcome.name,
				Output:       outcome.output,
				Err:          outcome.err,
				Attempts:     outcome.attempts,
				Duration:     outcome.duration,
				ErrorDetails: outcome.errorDetails,
			}
			if outcome.err != nil {
				failedSteps = append(failedSteps, outcome.name)
				failedErrs[outcome.name] = outcome.err
				failedDetails[outcome.name] = outcome.errorDetails
				continue
			}
			outputs[outcome.name] = outcome.output
		}
	}

	finishedAt := time.Now()
	if run != nil {
		status := store.RunCompleted
		if len(failedSteps) > 0 {
			status = store.RunFailed
		}
		if err := run.UpdateStatus(status, finishedAt); err != nil {
			e.logger.Warn("failed to persist final run status", map[string]interface{}{
				"run": run.Dir(), "error": err.Error(),
			})
		}
	}

	result := &WorkflowResult{
		Steps:    results,
		Duration: finishedAt.Sub(startedAt),
		Success:  len(failedSteps) == 0,
	}
	if run != nil {
		result.RunDir = run.Dir()
	}

	if len(failedSteps) > 0 {
		sort.Strings(failedSteps)
		failedStep := failedSteps[0]
		result.FailedStep = failedStep
		result.Error = fmt.Sprintf("step %q failed: %v", failedStep, failedErrs[failedStep])
		result.ErrorDetails = failedDetails[failedStep]
		return result, &StepFailedError{Steps: failedSteps, Errs: failedErrs, ErrorDetails: result.ErrorDetails}
	}
	return result, nil
}

// runStep executes a single step with retries, persisting its input,
// status transitions, and output (when a run store is configured) and
// wrapping the attempt sequence in an OpenTelemetry span. Instrumentation
// failures never change the step's outcome — this is best-effort
// observability, not a correctness gate.
func (e *Executor) runStep(ctx context.Context, run *store.Run, step *workflow.StepDef, instance agent.Class, input schema.Value) stepOutcome {
	ctx, span := e.tracer.Start(ctx, "workflow.step",
		trace.WithAttributes(
			attribute.String("step.name", step.Name),
			attribute.String("step.agent_class", agentClassName(instance)),
		),
	)
	defer span.End()

	if run != nil {
		if err := run.WriteStepInput(step.Name, input); err != nil {
			e.logger.Warn("failed to persist step input", map[string]interface{}{
				"step": step.Name, "error": err.Error(),
			})
		}
		if err := run.MarkStepInProgress(step.Name, time.Now()); err != nil {
			e.logger.Warn("failed to persist step status", map[string]interface{}{
				"step": step.Name, "error": err.Error(),
			})
		}
	}

	start := time.Now()
	attempts := 0
	var output schema.Value

	err := resilience.Do(ctx, e.retriesFor(step), e.sleepFor(ctx), func() error {
		attempts++
		span.AddEvent("step.attempt", trace.WithAttributes(attribute.Int("step.attempt", attempts)))

		result, callErr := agent.Execute(ctx, instance, input)
		if callErr != nil {
			return callErr
		}
		output = result.Output
		return nil
	})
	duration := time.Since(start)

	finishedAt := time.Now()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		details := captureBacktrace()
		if run != nil {
			if statusErr := run.MarkStepFailed(step.Name, finishedAt, err); statusErr != nil {
				e.logger.Warn("failed to persist step failure status", map[string]interface{}{
					"step": step.Name, "error": statusErr.Error(),
				})
			}
		}
		return stepOutcome{name: step.Name, err: err, attempts: attempts, duration: duration, errorDetails: details}
	}

	if run != nil {
		if err := run.WriteStepOutput(step.Name, output); err != nil {
			e.logger.Warn("failed to persist step output", map[string]interface{}{
				"step": step.Name, "error": err.Error(),
			})
		}
		if err := run.MarkStepCompleted(step.Name, finishedAt, duration); err != nil {
			e.logger.Warn("failed to persist step completion status", map[string]interface{}{
				"step": step.Name, "error": err.Error(),
			})
		}
	}

	return stepOutcome{name: step.Name, output: output, attempts: attempts, duration: duration}
}

// captureBacktrace returns the first 5 call frames above its own caller,
// each as its function name followed by an indented file:line on the next
// line, as the closest Go equivalent of the raised-exception
// backtrace a dynamically-typed implementation would capture at the
// point a step's final attempt failed.
func captureBacktrace() string {
	const maxFrames = 5
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(3, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var lines []string
	for {
		frame, more := frames.Next()
		lines = append(lines, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func agentClassName(a agent.Class) string {
	if a == nil {
		return "<nil>"
	}
	return schema.TypeNameOf(a)
}
