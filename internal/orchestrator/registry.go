// Package orchestrator dispatches pipeline tasks to per-queue worker
// pools, tracks task state in the database, retries failures with backoff,
// and submits dependent tasks as their prerequisites complete.
package orchestrator

import (
	"fmt"
	"time"

	"github.com/jonathan/laudatorai/internal/types"
)

// TaskDefinition defines metadata for one task type.
type TaskDefinition struct {
	Type         types.TaskType
	Queue        types.Queue
	MaxRetries   int
	Timeout      time.Duration
	Dependencies []types.TaskType
	// Degradable tasks that fail terminally do not fail the Application;
	// the pipeline continues with a fallback result.
	Degradable bool
}

// TaskRegistry holds the definition for every task type. Task-to-queue
// mapping is fixed; retries and timeouts vary per type because LLM calls
// are slower and costlier than scraping.
var TaskRegistry = map[types.TaskType]TaskDefinition{
	types.TaskExtractJob: {
		Type:       types.TaskExtractJob,
		Queue:      types.QueueJobProcessing,
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	},
	types.TaskParseResume: {
		Type:       types.TaskParseResume,
		Queue:      types.QueueResumeProcessing,
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	},
	types.TaskTailorResume: {
		Type:         types.TaskTailorResume,
		Queue:        types.QueueApplicationProcessing,
		MaxRetries:   2,
		Timeout:      60 * time.Second,
		Dependencies: []types.TaskType{types.TaskExtractJob, types.TaskParseResume},
		Degradable:   true,
	},
	types.TaskGenerateCoverLetter: {
		Type:         types.TaskGenerateCoverLetter,
		Queue:        types.QueueApplicationProcessing,
		MaxRetries:   3,
		Timeout:      60 * time.Second,
		Dependencies: []types.TaskType{types.TaskExtractJob, types.TaskParseResume},
	},
	types.TaskRenderDocument: {
		Type:       types.TaskRenderDocument,
		Queue:      types.QueueApplicationProcessing,
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	},
	types.TaskCleanupTasks: {
		Type:       types.TaskCleanupTasks,
		Queue:      types.QueueCleanup,
		MaxRetries: 1,
		Timeout:    30 * time.Second,
	},
}

// Queues lists every queue the registry routes to.
func Queues() []types.Queue {
	return []types.Queue{
		types.QueueJobProcessing,
		types.QueueResumeProcessing,
		types.QueueApplicationProcessing,
		types.QueueCleanup,
	}
}

// Definition looks up the registry entry for a task type.
func Definition(taskType types.TaskType) (TaskDefinition, error) {
	def, ok := TaskRegistry[taskType]
	if !ok {
		return TaskDefinition{}, fmt.Errorf("unknown task type: %s", taskType)
	}
	return def, nil
}

// DependencyError reports prerequisites that have not succeeded yet, or
// that failed terminally.
type DependencyError struct {
	Task    types.TaskType
	Missing []types.TaskType
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependencies not satisfied for %s: %v", e.Task, e.Missing)
}
