// Package schemas validates task payloads against their JSON Schemas
// before they are accepted onto a queue.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/laudatorai/internal/types"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	TaskType types.TaskType
	Errors   []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid payload for %s:\n", ve.TaskType))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors in the schema itself rather than the document
type SchemaLoadError struct {
	TaskType types.TaskType
	Cause    error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema for %s: %v", e.TaskType, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidatePayload checks a raw JSON payload against the schema registered
// for the task type. An unknown task type is rejected.
func ValidatePayload(taskType types.TaskType, payload []byte) error {
	schema, ok := payloadSchemas[taskType]
	if !ok {
		return fmt.Errorf("no payload schema for task type: %s", taskType)
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{TaskType: taskType, Cause: err}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		TaskType: taskType,
		Errors:   make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
