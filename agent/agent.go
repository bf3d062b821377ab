// Package agent defines the agent contract: a declared input schema, a
// declared output schema, and a Call operation, following a BaseAgent
// embedding idiom that declares schemas instead of wiring
// discovery/telemetry/memory.
package agent

import (
	"context"

	"github.com/flowmind/agentgraph/schema"
)

// Class is the compile-time declaration every agent implements: a declared
// input schema, a declared output schema, and the Call operation. The
// workflow executor never calls Call directly — it always goes through
// Execute (see execute.go) so schema validation and timing happen exactly
// once, in one place.
type Class interface {
	InputSchema() schema.Schema
	OutputSchema() schema.Schema
	Call(ctx context.Context, input schema.Value) (schema.Value, error)
}

// ToolClass is an opaque, passthrough registration: the core never invokes
// tools itself (tool invocation loops are an agent-internal concern, out of
// scope per the package's purpose), it only carries the declaration so an
// agent's own Call implementation can look tools up by name.
type ToolClass interface{}

// Base gives agent authors the declarative surface agents need:
// input/output schema declarations plus optional tool/model/provider
// metadata that the core treats as pure passthroughs. Embed Base in a
// concrete agent struct and implement Call:
//
//	type Uppercase struct {
//	    agent.Base
//	}
//
//	func NewUppercase() *Uppercase {
//	    u := &Uppercase{}
//	    u.Declare(TextValue{}, TextValue{})
//	    return u
//	}
//
//	func (u *Uppercase) Call(ctx context.Context, input schema.Value) (schema.Value, error) {
//	    in := input.(TextValue)
//	    return TextValue{Text: strings.ToUpper(in.Text)}, nil
//	}
type Base struct {
	input    schema.Schema
	output   schema.Schema
	tools    map[string]ToolClass
	model    string
	provider string
}

// Declare sets the agent's input and output schemas from zero values of the
// caller's own struct types.
func (b *Base) Declare(input, output schema.Value) {
	b.input = schema.Of(input)
	b.output = schema.Of(output)
}

// InputSchema implements Class.
func (b *Base) InputSchema() schema.Schema { return b.input }

// OutputSchema implements Class.
func (b *Base) OutputSchema() schema.Schema { return b.output }

// Tool registers a named tool class. The core never interprets this; it is
// a passthrough for the agent's own Call implementation to use.
func (b *Base) Tool(name string, tool ToolClass) {
	if b.tools == nil {
		b.tools = make(map[string]ToolClass)
	}
	b.tools[name] = tool
}

// ToolNamed returns a previously registered tool, and whether it exists.
func (b *Base) ToolNamed(name string) (ToolClass, bool) {
	t, ok := b.tools[name]
	return t, ok
}

// Model declares the informational model name. Passthrough; unused by core.
func (b *Base) Model(name string) { b.model = name }

// Provider declares the informational provider name. Passthrough; unused by core.
func (b *Base) Provider(name string) { b.provider = name }

// ModelName returns the declared model, if any.
func (b *Base) ModelName() string { return b.model }

// ProviderName returns the declared provider, if any.
func (b *Base) ProviderName() string { return b.provider }
