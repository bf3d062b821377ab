package agentgraph

import (
	"github.com/google/uuid"

	"github.com/flowmind/agentgraph/core"
	"github.com/flowmind/agentgraph/schema"
)

// Re-exported ambient types: logging contract and the schema primitives
// agents declare against.
type (
	Logger               = core.Logger
	ComponentAwareLogger = core.ComponentAwareLogger
	NoOpLogger           = core.NoOpLogger
	ProductionLogger     = core.ProductionLogger
	LoggingConfig        = core.LoggingConfig

	Value  = schema.Value
	Schema = schema.Schema
)

// Re-exported constructors and sentinel errors.
var (
	DefaultLoggingConfig = core.DefaultLoggingConfig
	NewProductionLogger  = core.NewProductionLogger
	OfSchema             = schema.Of

	ErrMaxRetriesExceeded   = core.ErrMaxRetriesExceeded
	ErrInvalidConfiguration = core.ErrInvalidConfiguration
)

// NewCorrelationID returns a fresh random identifier suitable for tagging
// log lines or traces with a single run across process boundaries. The run
// store itself keys run directories by workflow name and start timestamp
// (so one workflow's runs sort chronologically); this is for callers who
// want an opaque correlation handle independent of that naming scheme —
// e.g. to thread through a caller's own request-logging middleware.
func NewCorrelationID() string {
	return uuid.NewString()
}
