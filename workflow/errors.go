package workflow

import (
	"fmt"
	"strings"
)

// MissingDependencyError is returned by Define when a step names a
// dependency that is not itself a step in the same workflow.
type MissingDependencyError struct {
	Step      string
	DependsOn string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("step %q depends on undefined step %q", e.Step, e.DependsOn)
}

// CircularDependencyError is returned by Define when the declared steps
// form a cycle. Path lists the cycle in traversal order, starting and
// ending at the same step name.
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Path, " -> "))
}

// DuplicateStepError is returned by Define when the same step name is
// registered twice within one workflow.
type DuplicateStepError struct {
	Step string
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("step %q already defined in this workflow", e.Step)
}

// EmptyWorkflowError is returned by Define when a workflow declares no
// steps at all.
type EmptyWorkflowError struct {
	Name string
}

func (e *EmptyWorkflowError) Error() string {
	return fmt.Sprintf("workflow %q declares no steps", e.Name)
}
