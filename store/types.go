package store

import "time"

// RunStatus is the lifecycle state of an entire workflow run.
type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// StepState is the lifecycle state of one step within a run.
type StepState string

const (
	StepPending    StepState = "pending"
	StepInProgress StepState = "in_progress"
	StepCompleted  StepState = "completed"
	StepFailed     StepState = "failed"
)

// RetryRecord captures one failed attempt at a step, for diagnosing why a
// run needed as many attempts as it did.
type RetryRecord struct {
	Error      string    `json:"error"`
	ErrorClass string    `json:"error_class"`
	Timestamp  time.Time `json:"timestamp"`
}

// StepStatus is the persisted status.json for one step directory. The step
// name itself is never a field here — it is the directory name — so the
// file is exactly the set of fields a resuming executor needs.
type StepStatus struct {
	Status      StepState     `json:"status"`
	RetryCount  int           `json:"retry_count"`
	Error       string        `json:"error,omitempty"`
	ErrorClass  string        `json:"error_class,omitempty"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Duration    *float64      `json:"duration,omitempty"`
	Retries     []RetryRecord `json:"retries,omitempty"`
}

// RunMetadata is the persisted metadata.json at the root of a run
// directory.
type RunMetadata struct {
	WorkflowName string                 `json:"workflow_name"`
	Status       RunStatus              `json:"status"`
	Steps        []string               `json:"steps"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Config       map[string]interface{} `json:"config"`
}

// ResumePlan is what a crashed-then-restarted executor needs to pick a run
// back up: which steps already produced durable output (and so can be
// skipped), which single step was in flight or failed and should be
// re-run first, and which steps remain after that.
type ResumePlan struct {
	RunDir         string
	WorkflowName   string
	CompletedSteps map[string]bool
	ResumeStep     string
	PendingSteps   []string
}
