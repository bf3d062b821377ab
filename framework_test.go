package agentgraph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/flowmind/agentgraph"
)

type titleValue struct {
	Title string
}

type shoutingAgent struct{ agentgraph.Base }

func newShoutingAgent() *shoutingAgent {
	a := &shoutingAgent{}
	a.Declare(titleValue{}, titleValue{})
	return a
}

func (a *shoutingAgent) Call(_ context.Context, input agentgraph.Value) (agentgraph.Value, error) {
	in := input.(titleValue)
	return titleValue{Title: strings.ToUpper(in.Title)}, nil
}

func TestRunWorkflowBuildsAndExecutesInOneCall(t *testing.T) {
	result, err := agentgraph.RunWorkflow(context.Background(), "shout", func(b *agentgraph.Builder) {
		b.Step("shout", newShoutingAgent())
	}, titleValue{Title: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, ok := result.Output("shout")
	if !ok {
		t.Fatalf("expected shout step to have succeeded")
	}
	if out.(titleValue).Title != "HELLO" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestNewCorrelationIDIsNonEmptyAndUnique(t *testing.T) {
	a := agentgraph.NewCorrelationID()
	b := agentgraph.NewCorrelationID()
	if a == "" || b == "" {
		t.Fatal("expected non-empty correlation ids")
	}
	if a == b {
		t.Fatal("expected two calls to produce distinct ids")
	}
}

func TestRunStoreRoundTripsThroughFacadeAliases(t *testing.T) {
	store, err := agentgraph.NewRunStore(t.TempDir(), agentgraph.NoOpLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := agentgraph.RunWorkflow(context.Background(), "shout", func(b *agentgraph.Builder) {
		b.Step("shout", newShoutingAgent())
	}, titleValue{Title: "hi"}, agentgraph.WithRunStore(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RunDir == "" {
		t.Fatal("expected a run directory to be recorded")
	}
}
