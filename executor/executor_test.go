package executor

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flowmind/agentgraph/agent"
	"github.com/flowmind/agentgraph/schema"
	"github.com/flowmind/agentgraph/workflow"
)

type textValue struct {
	Text string
}

type upperAgent struct{ agent.Base }

func newUpperAgent() *upperAgent {
	a := &upperAgent{}
	a.Declare(textValue{}, textValue{})
	return a
}

func (a *upperAgent) Call(_ context.Context, input schema.Value) (schema.Value, error) {
	in := input.(textValue)
	return textValue{Text: strings.ToUpper(in.Text)}, nil
}

type appendAgent struct {
	agent.Base
	suffix string
}

func newAppendAgent(suffix string) *appendAgent {
	a := &appendAgent{suffix: suffix}
	a.Declare(textValue{}, textValue{})
	return a
}

func (a *appendAgent) Call(_ context.Context, input schema.Value) (schema.Value, error) {
	in := input.(textValue)
	return textValue{Text: in.Text + a.suffix}, nil
}

type mergeAgent struct{ agent.Base }

func newMergeAgent() *mergeAgent {
	a := &mergeAgent{}
	a.Declare(workflow.MergedInput{}, textValue{})
	return a
}

func (a *mergeAgent) Call(_ context.Context, input schema.Value) (schema.Value, error) {
	merged := input.(workflow.MergedInput)
	left, _ := merged.From("left")
	right, _ := merged.From("right")
	return textValue{Text: left.(textValue).Text + "+" + right.(textValue).Text}, nil
}

type alwaysFailsAgent struct {
	agent.Base
	calls int32
}

func newAlwaysFailsAgent() *alwaysFailsAgent {
	a := &alwaysFailsAgent{}
	a.Declare(textValue{}, textValue{})
	return a
}

func (a *alwaysFailsAgent) Call(context.Context, schema.Value) (schema.Value, error) {
	atomic.AddInt32(&a.calls, 1)
	return nil, errors.New("always fails")
}

type concurrencyTrackingAgent struct {
	agent.Base
	started  chan string
	release  <-chan struct{}
}

func newConcurrencyTrackingAgent(started chan string, release <-chan struct{}) *concurrencyTrackingAgent {
	a := &concurrencyTrackingAgent{started: started, release: release}
	a.Declare(textValue{}, textValue{})
	return a
}

func (a *concurrencyTrackingAgent) Call(_ context.Context, input schema.Value) (schema.Value, error) {
	a.started <- input.(textValue).Text
	<-a.release
	return input.(textValue), nil
}

type counterAgent struct {
	agent.Base
	calls int32
}

func newCounterAgent() *counterAgent {
	a := &counterAgent{}
	a.Declare(textValue{}, textValue{})
	return a
}

func (a *counterAgent) Call(context.Context, schema.Value) (schema.Value, error) {
	n := atomic.AddInt32(&a.calls, 1)
	return textValue{Text: strconv.Itoa(int(n))}, nil
}

func noSleep(time.Duration) {}

func TestRunLinearChain(t *testing.T) {
	def, err := workflow.Define("linear", func(b *workflow.Builder) {
		b.Step("upper", newUpperAgent())
		b.Step("suffix", newAppendAgent("!"), workflow.After("upper"))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec := New(def, withSleep(noSleep))
	result, err := exec.Run(context.Background(), textValue{Text: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, ok := result.Output("suffix")
	if !ok {
		t.Fatalf("expected suffix step to have succeeded")
	}
	if out.(textValue).Text != "HI!" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestRunDiamondMergesBothBranches(t *testing.T) {
	def, err := workflow.Define("diamond", func(b *workflow.Builder) {
		b.Step("fetch", newUpperAgent())
		b.Step("left", newAppendAgent("-L"), workflow.After("fetch"))
		b.Step("right", newAppendAgent("-R"), workflow.After("fetch"))
		b.Step("merge", newMergeAgent(), workflow.After("left", "right"))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec := New(def, withSleep(noSleep))
	result, err := exec.Run(context.Background(), textValue{Text: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, ok := result.Output("merge")
	if !ok {
		t.Fatalf("expected merge step to have succeeded")
	}
	if out.(textValue).Text != "X-L+X-R" {
		t.Fatalf("unexpected merged output: %+v", out)
	}
}

func TestRunFailureShortCircuitsDownstreamSteps(t *testing.T) {
	def, err := workflow.Define("chain", func(b *workflow.Builder) {
		b.Step("fetch", newUpperAgent())
		b.Step("broken", newAlwaysFailsAgent(), workflow.After("fetch"), workflow.Retries(1))
		b.Step("never", newAppendAgent("!"), workflow.After("broken"))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec := New(def, withSleep(noSleep))
	result, err := exec.Run(context.Background(), textValue{Text: "hi"})

	var stepFailed *StepFailedError
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.As(err, &stepFailed) {
		t.Fatalf("expected StepFailedError, got %T: %v", err, err)
	}
	if len(stepFailed.Steps) != 1 || stepFailed.Steps[0] != "broken" {
		t.Fatalf("expected only 'broken' to be reported failed, got %v", stepFailed.Steps)
	}
	if _, ok := result.Steps["never"]; ok {
		t.Fatalf("expected 'never' to not have run after its dependency failed")
	}
}

func TestRunRetriesBeforeGivingUp(t *testing.T) {
	failing := newAlwaysFailsAgent()
	def, err := workflow.Define("retry", func(b *workflow.Builder) {
		b.Step("broken", failing, workflow.Retries(2))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec := New(def, withSleep(noSleep))
	_, err = exec.Run(context.Background(), textValue{Text: "x"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if failing.calls != 3 {
		t.Fatalf("expected 3 attempts (1 + 2 retries), got %d", failing.calls)
	}
}

func TestRunExecutesIndependentStepsConcurrently(t *testing.T) {
	started := make(chan string, 2)
	release := make(chan struct{})

	def, err := workflow.Define("parallel", func(b *workflow.Builder) {
		b.Step("fetch", newUpperAgent())
		b.Step("left", newConcurrencyTrackingAgent(started, release), workflow.After("fetch"))
		b.Step("right", newConcurrencyTrackingAgent(started, release), workflow.After("fetch"))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec := New(def, withSleep(noSleep))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = exec.Run(context.Background(), textValue{Text: "x"})
	}()

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case name := <-started:
			seen[name] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for both parallel steps to start")
		}
	}
	close(release)
	wg.Wait()

	if len(seen) != 2 {
		t.Fatalf("expected both branches to start concurrently, got %v", seen)
	}
}

func TestWithAgentsOverridesTheDefinitionsInstanceForNamedSteps(t *testing.T) {
	baked := newCounterAgent()
	def, err := workflow.Define("count", func(b *workflow.Builder) {
		b.Step("count", baked)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shared := newCounterAgent()
	exec := New(def, withSleep(noSleep), WithAgents(map[string]agent.Class{"count": shared}))

	for i, want := range []string{"1", "2"} {
		result, err := exec.Run(context.Background(), textValue{Text: "x"})
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		out, _ := result.Output("count")
		if out.(textValue).Text != want {
			t.Fatalf("run %d: expected %q, got %+v", i, want, out)
		}
	}

	if baked.calls != 0 {
		t.Fatalf("expected the overridden instance to be called instead of the baked-in one, but baked.calls = %d", baked.calls)
	}
}

func TestAgentFreshGivesEachOverrideItsOwnState(t *testing.T) {
	template := newCounterAgent()
	def, err := workflow.Define("count", func(b *workflow.Builder) {
		b.Step("count", template)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec := New(def, withSleep(noSleep), WithAgents(map[string]agent.Class{
		"count": agent.Fresh(template),
	}))

	result, err := exec.Run(context.Background(), textValue{Text: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, _ := result.Output("count")
	if out.(textValue).Text != "1" {
		t.Fatalf("expected a fresh instance starting from zero, got %+v", out)
	}
	if template.calls != 0 {
		t.Fatalf("expected the template instance to be untouched, got %d calls", template.calls)
	}
}

func TestRunFailureRecordsErrorDetails(t *testing.T) {
	def, err := workflow.Define("bad", func(b *workflow.Builder) {
		b.Step("broken", newAlwaysFailsAgent())
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exec := New(def, withSleep(noSleep))
	result, err := exec.Run(context.Background(), textValue{Text: "x"})
	if err == nil {
		t.Fatal("expected an error")
	}

	var stepFailed *StepFailedError
	if !errors.As(err, &stepFailed) {
		t.Fatalf("expected StepFailedError, got %T: %v", err, err)
	}
	if stepFailed.ErrorDetails == "" {
		t.Fatal("expected StepFailedError.ErrorDetails to be a non-empty backtrace")
	}
	if result.Success {
		t.Fatal("expected result.Success to be false")
	}
	if result.FailedStep != "broken" {
		t.Fatalf("expected FailedStep %q, got %q", "broken", result.FailedStep)
	}
	if result.Error == "" || result.ErrorDetails == "" {
		t.Fatalf("expected non-empty Error and ErrorDetails, got %q / %q", result.Error, result.ErrorDetails)
	}
	if result.Steps["broken"].ErrorDetails == "" {
		t.Fatal("expected the step result itself to carry ErrorDetails too")
	}
}
