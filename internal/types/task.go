package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskType identifies one stage of the processing pipeline.
type TaskType string

// Pipeline task types
const (
	TaskExtractJob          TaskType = "extract_job"
	TaskParseResume         TaskType = "parse_resume"
	TaskTailorResume        TaskType = "tailor_resume"
	TaskGenerateCoverLetter TaskType = "generate_cover_letter"
	TaskRenderDocument      TaskType = "render_document"
	TaskCleanupTasks        TaskType = "cleanup_tasks"
)

// Queue names one of the logical task queues. Each queue gets an
// independent worker pool so a slow LLM call cannot starve scraping.
type Queue string

// Logical queues
const (
	QueueJobProcessing         Queue = "job_processing"
	QueueResumeProcessing      Queue = "resume_processing"
	QueueApplicationProcessing Queue = "application_processing"
	QueueCleanup               Queue = "cleanup"
)

// Task status values. A retried task is superseded by a fresh queued row;
// failed rows are never deleted.
const (
	TaskStatusQueued    = "queued"
	TaskStatusRunning   = "running"
	TaskStatusSucceeded = "succeeded"
	TaskStatusFailed    = "failed"
)

// ProcessingTask is one queued unit of work. Rows double as the durable
// queue record: crash recovery requeues running rows with a stale heartbeat.
type ProcessingTask struct {
	ID            uuid.UUID       `json:"id"`
	Type          TaskType        `json:"task_type"`
	Queue         Queue           `json:"queue"`
	EntityID      uuid.UUID       `json:"entity_id"`
	ApplicationID uuid.UUID       `json:"application_id,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Status        string          `json:"status"`
	Result        json.RawMessage `json:"result,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	RetryCount    int             `json:"retry_count"`
	HeartbeatAt   *time.Time      `json:"heartbeat_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Terminal reports whether the task reached a final state.
func (t *ProcessingTask) Terminal() bool {
	return t.Status == TaskStatusSucceeded || t.Status == TaskStatusFailed
}

// ExtractJobPayload is the payload for extract_job tasks.
type ExtractJobPayload struct {
	JobID         uuid.UUID `json:"job_id"`
	URL           string    `json:"url"`
	ApplicationID uuid.UUID `json:"application_id,omitempty"`
}

// ParseResumePayload is the payload for parse_resume tasks.
type ParseResumePayload struct {
	ResumeID      uuid.UUID `json:"resume_id"`
	StoragePath   string    `json:"storage_path"`
	Filename      string    `json:"filename"`
	ApplicationID uuid.UUID `json:"application_id,omitempty"`
}

// ApplicationTaskPayload is shared by tailor_resume and
// generate_cover_letter tasks.
type ApplicationTaskPayload struct {
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	ResumeID      uuid.UUID `json:"resume_id"`
}

// Document kinds for render_document tasks.
const (
	DocumentKindResume      = "resume"
	DocumentKindCoverLetter = "cover_letter"
)

// RenderDocumentPayload is the payload for render_document tasks.
// Degraded marks a resume render that fell back to the untailored parse
// because tailoring exhausted its retry budget.
type RenderDocumentPayload struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Kind          string    `json:"kind"`
	Degraded      bool      `json:"degraded,omitempty"`
}

// CleanupPayload is the payload for cleanup_tasks tasks.
type CleanupPayload struct {
	OlderThanHours int `json:"older_than_hours"`
}
