package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowmind/agentgraph/core"
	"github.com/flowmind/agentgraph/schema"
	"github.com/flowmind/agentgraph/store"
)

type lineValue struct {
	Line string
}

func newTestStore(t *testing.T) *store.RunStore {
	t.Helper()
	s, err := store.New(t.TempDir(), core.NoOpLogger{})
	require.NoError(t, err)
	return s
}

func TestCreateRunWritesMetadata(t *testing.T) {
	s := newTestStore(t)
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	run, err := s.CreateRun("ingest", []string{"fetch", "parse"}, nil, started)
	require.NoError(t, err)

	meta := run.Metadata()
	require.Equal(t, "ingest", meta.WorkflowName)
	require.Equal(t, store.RunPending, meta.Status)
	require.Equal(t, []string{"fetch", "parse"}, meta.Steps)
	require.NotNil(t, meta.Config)

	fetchStatus, err := run.LoadStepStatus("fetch")
	require.NoError(t, err)
	require.Equal(t, store.StepPending, fetchStatus.Status)
	require.Equal(t, 0, fetchStatus.RetryCount)

	reopened, err := s.OpenRun(run.Dir())
	require.NoError(t, err)
	require.Equal(t, run.ID(), reopened.ID())
}

func TestStepOutputRoundTrips(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun("ingest", []string{"fetch"}, nil, time.Now())
	require.NoError(t, err)

	want := lineValue{Line: "hello"}
	require.NoError(t, run.WriteStepOutput("fetch", want))

	got, err := run.LoadStepOutput("fetch", schema.Of(lineValue{}))
	require.NoError(t, err)
	require.Equal(t, want, got.(lineValue))
}

func TestResumePlanReportsCompletedResumeAndPendingSteps(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun("drafting", []string{"draft", "edit", "format"}, nil, time.Now())
	require.NoError(t, err)

	require.NoError(t, run.WriteStepOutput("draft", lineValue{Line: "done"}))
	require.NoError(t, run.MarkStepCompleted("draft", time.Now(), time.Second))
	require.NoError(t, run.MarkStepInProgress("edit", time.Now()))
	// format never started: its status.json stays pending from CreateRun.

	plan, err := run.ResumePlan([]string{"draft", "edit", "format"})
	require.NoError(t, err)
	require.True(t, plan.CompletedSteps["draft"])
	require.Equal(t, "edit", plan.ResumeStep)
	require.Equal(t, []string{"format"}, plan.PendingSteps)
}

func TestMarkStepFailedPersistsErrorAndRetryRecord(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun("drafting", []string{"draft"}, nil, time.Now())
	require.NoError(t, err)

	require.NoError(t, run.MarkStepInProgress("draft", time.Now()))
	require.NoError(t, run.MarkStepFailed("draft", time.Now(), errors.New("boom")))

	status, err := run.LoadStepStatus("draft")
	require.NoError(t, err)
	require.Equal(t, store.StepFailed, status.Status)
	require.Equal(t, 1, status.RetryCount)
	require.Equal(t, "boom", status.Error)
	require.NotEmpty(t, status.ErrorClass)
	require.Len(t, status.Retries, 1)
	require.Equal(t, "boom", status.Retries[0].Error)
}

func TestOpenRunReportsMissingRun(t *testing.T) {
	s := newTestStore(t)
	_, err := s.OpenRun("/nonexistent/run/dir")
	require.Error(t, err)

	var notFound *store.RunNotFoundError
	require.ErrorAs(t, err, &notFound)
}
