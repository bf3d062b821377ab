// Package store provides the filesystem-backed durable run state that lets
// a crashed executor resume a workflow run instead of restarting it from
// scratch: a plain directory tree of JSON files, which is what a
// single-process, no-distributed-scheduling library actually needs.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/flowmind/agentgraph/core"
	"github.com/flowmind/agentgraph/schema"
)

var runDirPattern = regexp.MustCompile(`^(.+)_(\d{8})_(\d{6})$`)

// RunStore manages run directories under a single base directory. It is
// safe for concurrent use: each run directory gets its own mutex so
// concurrent steps within one run serialize their writes without blocking
// unrelated runs.
type RunStore struct {
	baseDir string
	logger  core.Logger
	ser     Serializer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs a RunStore rooted at baseDir, creating it if necessary. A
// nil logger is replaced with core.NoOpLogger{}; persistence failures are
// logged through it and also returned as errors, never only swallowed —
// see the doc comments on CreateRun and the Mark* methods below.
func New(baseDir string, logger core.Logger) (*RunStore, error) {
	if logger == nil {
		logger = core.NoOpLogger{}
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run store base dir %s: %w", baseDir, err)
	}
	return &RunStore{
		baseDir: baseDir,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

func (s *RunStore) lockFor(dir string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[dir]
	if !ok {
		l = &sync.Mutex{}
		s.locks[dir] = l
	}
	return l
}

// Run is a handle to one workflow run's directory. All its methods are
// best-effort from the executor's point of view: a persistence failure is
// returned so the caller can log it, but it never changes the outcome of
// the step itself (durability is a resumption aid, not a correctness
// gate).
type Run struct {
	store *RunStore
	dir   string
	meta  RunMetadata
}

// CreateRun creates a new run directory named
// <workflowName>_<YYYYMMDD>_<HHMMSS> under the store's base directory,
// writes its initial metadata.json with status pending, and writes a
// pending status.json into every named step's directory so a resume plan
// has something to read even for a step that never got to start.
func (s *RunStore) CreateRun(workflowName string, stepNames []string, config map[string]interface{}, startedAt time.Time) (*Run, error) {
	dirName := fmt.Sprintf("%s_%s", workflowName, startedAt.Format("20060102_150405"))
	dir := filepath.Join(s.baseDir, dirName)

	if err := os.MkdirAll(filepath.Join(dir, "steps"), 0o755); err != nil {
		return nil, fmt.Errorf("create run directory %s: %w", dir, err)
	}

	if config == nil {
		config = map[string]interface{}{}
	}
	names := append([]string{}, stepNames...)

	run := &Run{
		store: s,
		dir:   dir,
		meta: RunMetadata{
			WorkflowName: workflowName,
			Status:       RunPending,
			Steps:        names,
			CreatedAt:    startedAt,
			UpdatedAt:    startedAt,
			Config:       config,
		},
	}
	if err := run.writeMetadata(); err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := run.writeStepStatus(name, StepStatus{Status: StepPending, RetryCount: 0}); err != nil {
			return nil, err
		}
	}
	return run, nil
}

// OpenRun loads an existing run directory for resumption.
func (s *RunStore) OpenRun(dir string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, &RunNotFoundError{Dir: dir}
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for run %s: %w", dir, err)
	}
	return &Run{store: s, dir: dir, meta: meta}, nil
}

// ListRuns returns the names of directories under the store's base
// directory that match the <name>_<date>_<time> naming convention, sorted
// by name: grouped by workflow name, and oldest first within one workflow.
func (s *RunStore) ListRuns() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list runs in %s: %w", s.baseDir, err)
	}
	var runs []string
	for _, e := range entries {
		if e.IsDir() && runDirPattern.MatchString(e.Name()) {
			runs = append(runs, e.Name())
		}
	}
	sort.Strings(runs)
	return runs, nil
}

// Dir returns the run's directory on disk.
func (r *Run) Dir() string { return r.dir }

// ID returns the run's directory name, <workflow_name>_<YYYYMMDD>_<HHMMSS>.
func (r *Run) ID() string { return filepath.Base(r.dir) }

// Metadata returns a copy of the run's current metadata.
func (r *Run) Metadata() RunMetadata { return r.meta }

func (r *Run) writeMetadata() error {
	lock := r.store.lockFor(r.dir)
	lock.Lock()
	defer lock.Unlock()

	data, err := json.MarshalIndent(r.meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run metadata: %w", err)
	}
	path := filepath.Join(r.dir, "metadata.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		r.store.logger.Warn("failed to persist run metadata", map[string]interface{}{
			"run": r.dir, "error": err.Error(),
		})
		return fmt.Errorf("write run metadata %s: %w", path, err)
	}
	return nil
}

// UpdateStatus rewrites metadata.json with a new run status and
// updated_at, preserving every other field.
func (r *Run) UpdateStatus(status RunStatus, at time.Time) error {
	r.meta.Status = status
	r.meta.UpdatedAt = at
	return r.writeMetadata()
}

func (r *Run) stepDir(name string) string {
	return filepath.Join(r.dir, "steps", name)
}

// WriteStepInput persists the input a step was invoked with.
func (r *Run) WriteStepInput(name string, input schema.Value) error {
	return r.writeStepFile(name, "input.json", input)
}

// WriteStepOutput persists a step's successful output.
func (r *Run) WriteStepOutput(name string, output schema.Value) error {
	return r.writeStepFile(name, "output.json", output)
}

func (r *Run) writeStepFile(stepName, fileName string, v schema.Value) error {
	lock := r.store.lockFor(r.dir)
	lock.Lock()
	defer lock.Unlock()

	dir := r.stepDir(stepName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create step directory %s: %w", dir, err)
	}

	data, err := r.store.ser.Serialize(v)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.store.logger.Warn("failed to persist step file", map[string]interface{}{
			"run": r.dir, "step": stepName, "file": fileName, "error": err.Error(),
		})
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// MarkStepInProgress loads the step's current status (if any), preserving
// its retry_count and retries, and writes status=in_progress, started_at
// set to at.
func (r *Run) MarkStepInProgress(name string, at time.Time) error {
	status := r.currentStepStatus(name)
	status.Status = StepInProgress
	status.StartedAt = &at
	return r.writeStepStatus(name, status)
}

// MarkStepCompleted preserves started_at, retry_count, and retries, and
// sets status=completed, completed_at=at, duration to the measured
// interval in seconds.
func (r *Run) MarkStepCompleted(name string, at time.Time, duration time.Duration) error {
	status := r.currentStepStatus(name)
	status.Status = StepCompleted
	status.CompletedAt = &at
	seconds := duration.Seconds()
	status.Duration = &seconds
	return r.writeStepStatus(name, status)
}

// MarkStepFailed preserves started_at, appends a retry record, increments
// retry_count, and sets status=failed with the error's message and class.
func (r *Run) MarkStepFailed(name string, at time.Time, stepErr error) error {
	status := r.currentStepStatus(name)
	class := errorClassName(stepErr)
	status.Retries = append(status.Retries, RetryRecord{
		Error: stepErr.Error(), ErrorClass: class, Timestamp: at,
	})
	status.RetryCount++
	status.Status = StepFailed
	status.Error = stepErr.Error()
	status.ErrorClass = class
	return r.writeStepStatus(name, status)
}

func (r *Run) currentStepStatus(name string) StepStatus {
	if current, err := r.LoadStepStatus(name); err == nil {
		return *current
	}
	return StepStatus{Status: StepPending}
}

func errorClassName(err error) string {
	t := reflect.TypeOf(err)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

func (r *Run) writeStepStatus(name string, status StepStatus) error {
	lock := r.store.lockFor(r.dir)
	lock.Lock()
	defer lock.Unlock()

	dir := r.stepDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create step directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal step status: %w", err)
	}

	path := filepath.Join(dir, "status.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		r.store.logger.Warn("failed to persist step status", map[string]interface{}{
			"run": r.dir, "step": name, "error": err.Error(),
		})
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadStepStatus reads a step's status.json.
func (r *Run) LoadStepStatus(name string) (*StepStatus, error) {
	path := filepath.Join(r.stepDir(name), "status.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StepNotFoundError{RunDir: r.dir, Step: name}
	}
	var status StepStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("parse status for step %s: %w", name, err)
	}
	return &status, nil
}

// LoadStepOutput reads a step's durable output.json and decodes it against
// the schema the caller expects the step to have produced.
func (r *Run) LoadStepOutput(name string, expected schema.Schema) (schema.Value, error) {
	path := filepath.Join(r.stepDir(name), "output.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StepNotFoundError{RunDir: r.dir, Step: name}
	}
	return r.store.ser.Deserialize(data, expected)
}

// StepNames lists the steps that have a directory under this run, sorted.
func (r *Run) StepNames() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.dir, "steps"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list steps for run %s: %w", r.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ResumePlan inspects the run's persisted step statuses, in the workflow's
// definition order, and reports which steps already completed (and so can
// be skipped on resume), which single step was in flight or failed when the
// process died (the first such step in order is the resume point), and
// which steps remain. A step with no persisted status at all (never
// started) is treated the same as one whose status is pending.
func (r *Run) ResumePlan(order []string) (*ResumePlan, error) {
	plan := &ResumePlan{
		RunDir:         r.dir,
		WorkflowName:   r.meta.WorkflowName,
		CompletedSteps: make(map[string]bool),
	}

	resumeFound := false
	for _, name := range order {
		state := StepPending
		if status, err := r.LoadStepStatus(name); err == nil {
			state = status.Status
		}

		switch state {
		case StepCompleted:
			plan.CompletedSteps[name] = true
		case StepInProgress, StepFailed:
			if !resumeFound {
				plan.ResumeStep = name
				resumeFound = true
				continue
			}
			plan.PendingSteps = append(plan.PendingSteps, name)
		default:
			plan.PendingSteps = append(plan.PendingSteps, name)
		}
	}

	return plan, nil
}
