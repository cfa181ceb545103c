package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/laudatorai/internal/types"
)

func TestRegistry_CoversEveryTaskType(t *testing.T) {
	for _, taskType := range []types.TaskType{
		types.TaskExtractJob,
		types.TaskParseResume,
		types.TaskTailorResume,
		types.TaskGenerateCoverLetter,
		types.TaskRenderDocument,
		types.TaskCleanupTasks,
	} {
		def, err := Definition(taskType)
		require.NoError(t, err)
		assert.Equal(t, taskType, def.Type)
		assert.NotZero(t, def.Timeout)
		assert.Positive(t, def.MaxRetries)
	}

	_, err := Definition(types.TaskType("bogus"))
	assert.Error(t, err)
}

func TestRegistry_DependenciesExist(t *testing.T) {
	for taskType, def := range TaskRegistry {
		for _, dep := range def.Dependencies {
			_, ok := TaskRegistry[dep]
			assert.True(t, ok, "%s depends on unknown task %s", taskType, dep)
		}
	}
}

func TestRegistry_QueueRouting(t *testing.T) {
	assert.Equal(t, types.QueueJobProcessing, TaskRegistry[types.TaskExtractJob].Queue)
	assert.Equal(t, types.QueueResumeProcessing, TaskRegistry[types.TaskParseResume].Queue)
	assert.Equal(t, types.QueueApplicationProcessing, TaskRegistry[types.TaskTailorResume].Queue)
	assert.Equal(t, types.QueueApplicationProcessing, TaskRegistry[types.TaskGenerateCoverLetter].Queue)
	assert.Equal(t, types.QueueApplicationProcessing, TaskRegistry[types.TaskRenderDocument].Queue)
	assert.Equal(t, types.QueueCleanup, TaskRegistry[types.TaskCleanupTasks].Queue)

	queues := map[types.Queue]bool{}
	for _, q := range Queues() {
		queues[q] = true
	}
	for taskType, def := range TaskRegistry {
		assert.True(t, queues[def.Queue], "%s routes to unlisted queue %s", taskType, def.Queue)
	}
}

func TestRegistry_OnlyTailoringDegrades(t *testing.T) {
	for taskType, def := range TaskRegistry {
		if taskType == types.TaskTailorResume {
			assert.True(t, def.Degradable)
		} else {
			assert.False(t, def.Degradable, "%s must not be degradable", taskType)
		}
	}
}

func TestRetryDelay_Bounds(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		for i := 0; i < 50; i++ {
			delay := retryDelay(attempt)
			assert.GreaterOrEqual(t, delay, time.Duration(0))
			assert.Less(t, delay, backoffCap)
		}
	}
}

func TestRetryDelay_GrowsWithAttempts(t *testing.T) {
	// full jitter draws from [0, base*2^attempt); only the upper bound
	// grows, so check the first attempt stays under the base window
	for i := 0; i < 50; i++ {
		assert.Less(t, retryDelay(0), backoffBase)
	}
}

func TestDependencyError_Message(t *testing.T) {
	err := &DependencyError{
		Task:    types.TaskTailorResume,
		Missing: []types.TaskType{types.TaskExtractJob, types.TaskParseResume},
	}
	assert.Equal(t, "dependencies not satisfied for tailor_resume: [extract_job parse_resume]", err.Error())
}

func TestFailureLabel(t *testing.T) {
	assert.Equal(t, "ExtractionFailed", failureLabel(types.TaskExtractJob))
	assert.Equal(t, "ParseFailed", failureLabel(types.TaskParseResume))
	assert.Equal(t, "TailoringFailed", failureLabel(types.TaskTailorResume))
	assert.Equal(t, "GenerationFailed", failureLabel(types.TaskGenerateCoverLetter))
	assert.Equal(t, "RenderFailed", failureLabel(types.TaskRenderDocument))
}
