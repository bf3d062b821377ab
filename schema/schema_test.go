package schema_test

import (
	"testing"

	"github.com/flowmind/agentgraph/schema"
)

type textInput struct {
	Text string
}

type textOutput struct {
	Text string
}

func TestSchemaAcceptsMatchingType(t *testing.T) {
	s := schema.Of(textInput{})

	if !s.Accepts(textInput{Text: "hi"}) {
		t.Fatalf("expected schema to accept textInput value")
	}
	if s.Accepts(textOutput{Text: "hi"}) {
		t.Fatalf("expected schema to reject a differently-typed value")
	}
	if s.Accepts(nil) {
		t.Fatalf("expected schema to reject nil")
	}
}

func TestSchemaAcceptsPointerAndValueAlike(t *testing.T) {
	s := schema.Of(textInput{})

	if !s.Accepts(&textInput{Text: "hi"}) {
		t.Fatalf("expected schema to accept a pointer to the declared struct")
	}
}

func TestZeroSchemaIsUndeclared(t *testing.T) {
	var s schema.Schema
	if !s.IsZero() {
		t.Fatalf("expected zero-value Schema to report IsZero")
	}
	if s.Accepts(textInput{}) {
		t.Fatalf("expected undeclared schema to accept nothing")
	}
	if s.Name() != "<undeclared>" {
		t.Fatalf("unexpected name for undeclared schema: %q", s.Name())
	}
}
