package agentgraph

import "github.com/flowmind/agentgraph/store"

// Re-exported run-store types.
type (
	RunStore    = store.RunStore
	Run         = store.Run
	RunStatus   = store.RunStatus
	StepState   = store.StepState
	StepStatus  = store.StepStatus
	RetryRecord = store.RetryRecord
	RunMetadata = store.RunMetadata
	ResumePlan  = store.ResumePlan
)

// Re-exported run-store status constants.
const (
	RunPending    = store.RunPending
	RunInProgress = store.RunInProgress
	RunCompleted  = store.RunCompleted
	RunFailed     = store.RunFailed

	StepPending    = store.StepPending
	StepInProgress = store.StepInProgress
	StepCompleted  = store.StepCompleted
	StepFailed     = store.StepFailed
)

// NewRunStore re-exports store.New.
var NewRunStore = store.New

// Re-exported run-store error types.
type (
	RunNotFoundError  = store.RunNotFoundError
	StepNotFoundError = store.StepNotFoundError
)
