package schemas

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/laudatorai/internal/types"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestValidatePayload_ExtractJob(t *testing.T) {
	payload := mustJSON(t, types.ExtractJobPayload{
		JobID: uuid.New(),
		URL:   "https://example.com/jobs/1",
	})
	assert.NoError(t, ValidatePayload(types.TaskExtractJob, payload))
}

func TestValidatePayload_MissingRequiredField(t *testing.T) {
	err := ValidatePayload(types.TaskExtractJob, []byte(`{"url": "https://example.com"}`))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, types.TaskExtractJob, ve.TaskType)
	assert.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Error(), "job_id")
}

func TestValidatePayload_BadUUID(t *testing.T) {
	err := ValidatePayload(types.TaskTailorResume, []byte(
		`{"application_id": "not-a-uuid", "job_id": "also-not", "resume_id": "nope"}`))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)
}

func TestValidatePayload_UnknownField(t *testing.T) {
	err := ValidatePayload(types.TaskCleanupTasks, []byte(`{"older_than_hours": 24, "extra": true}`))
	require.Error(t, err)
}

func TestValidatePayload_RenderKindEnum(t *testing.T) {
	good := mustJSON(t, types.RenderDocumentPayload{
		ApplicationID: uuid.New(),
		Kind:          types.DocumentKindCoverLetter,
		Degraded:      true,
	})
	assert.NoError(t, ValidatePayload(types.TaskRenderDocument, good))

	bad := mustJSON(t, types.RenderDocumentPayload{
		ApplicationID: uuid.New(),
		Kind:          "transcript",
	})
	assert.Error(t, ValidatePayload(types.TaskRenderDocument, bad))
}

func TestValidatePayload_AllTypesCovered(t *testing.T) {
	for _, taskType := range []types.TaskType{
		types.TaskExtractJob,
		types.TaskParseResume,
		types.TaskTailorResume,
		types.TaskGenerateCoverLetter,
		types.TaskRenderDocument,
		types.TaskCleanupTasks,
	} {
		_, ok := payloadSchemas[taskType]
		assert.True(t, ok, "schema missing for %s", taskType)
	}
}

func TestValidatePayload_UnknownTaskType(t *testing.T) {
	err := ValidatePayload(types.TaskType("frobnicate"), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no payload schema")
}

func TestValidatePayload_InvalidJSON(t *testing.T) {
	err := ValidatePayload(types.TaskCleanupTasks, []byte(`{not json`))
	require.Error(t, err)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}
