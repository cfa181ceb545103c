package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/laudatorai/internal/resumes"
	"github.com/jonathan/laudatorai/internal/schemas"
)

// ErrNotFound indicates the requested resource does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnsupportedFormat indicates an upload in a format the parser
// cannot read.
type ErrUnsupportedFormat struct {
	Filename string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Filename)
}

// ErrConflict indicates the request is valid but the resource is in a
// state that does not permit it.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		notFound    *ErrNotFound
		validation  *ErrValidation
		unsupported *ErrUnsupportedFormat
		conflict    *ErrConflict
		payload     *schemas.ValidationError
		parse       *resumes.ParseError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &payload):
		return http.StatusBadRequest
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &parse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
