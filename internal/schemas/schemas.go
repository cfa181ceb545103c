package schemas

import "github.com/jonathan/laudatorai/internal/types"

const uuidPattern = `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`

const extractJobSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["job_id", "url"],
	"properties": {
		"job_id": {"type": "string", "pattern": "` + uuidPattern + `"},
		"url": {"type": "string", "format": "uri", "minLength": 1},
		"application_id": {"type": "string", "pattern": "` + uuidPattern + `"}
	},
	"additionalProperties": false
}`

const parseResumeSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["resume_id", "storage_path", "filename"],
	"properties": {
		"resume_id": {"type": "string", "pattern": "` + uuidPattern + `"},
		"storage_path": {"type": "string", "minLength": 1},
		"filename": {"type": "string", "minLength": 1},
		"application_id": {"type": "string", "pattern": "` + uuidPattern + `"}
	},
	"additionalProperties": false
}`

const applicationTaskSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["application_id", "job_id", "resume_id"],
	"properties": {
		"application_id": {"type": "string", "pattern": "` + uuidPattern + `"},
		"job_id": {"type": "string", "pattern": "` + uuidPattern + `"},
		"resume_id": {"type": "string", "pattern": "` + uuidPattern + `"}
	},
	"additionalProperties": false
}`

const renderDocumentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["application_id", "kind"],
	"properties": {
		"application_id": {"type": "string", "pattern": "` + uuidPattern + `"},
		"kind": {"type": "string", "enum": ["resume", "cover_letter"]},
		"degraded": {"type": "boolean"}
	},
	"additionalProperties": false
}`

const cleanupSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["older_than_hours"],
	"properties": {
		"older_than_hours": {"type": "integer", "minimum": 1}
	},
	"additionalProperties": false
}`

var payloadSchemas = map[types.TaskType]string{
	types.TaskExtractJob:          extractJobSchema,
	types.TaskParseResume:         parseResumeSchema,
	types.TaskTailorResume:        applicationTaskSchema,
	types.TaskGenerateCoverLetter: applicationTaskSchema,
	types.TaskRenderDocument:      renderDocumentSchema,
	types.TaskCleanupTasks:        cleanupSchema,
}
