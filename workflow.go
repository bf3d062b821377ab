package agentgraph

import "github.com/flowmind/agentgraph/workflow"

// Re-exported workflow-definition types and options.
type (
	Definition   = workflow.Definition
	Builder      = workflow.Builder
	StepDef      = workflow.StepDef
	StepOption   = workflow.StepOption
	MergedInput  = workflow.MergedInput
	Registry     = workflow.Registry
)

// Re-exported workflow-definition functions.
var (
	Define       = workflow.Define
	After        = workflow.After
	Retries      = workflow.Retries
	LoadYAML     = workflow.LoadYAML
	LoadYAMLFile = workflow.LoadYAMLFile
)

// Re-exported workflow build-time error types, for errors.As at the call
// site without an extra import.
type (
	MissingDependencyError = workflow.MissingDependencyError
	CircularDependencyError = workflow.CircularDependencyError
	DuplicateStepError    = workflow.DuplicateStepError
	EmptyWorkflowError    = workflow.EmptyWorkflowError
)
