package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/laudatorai/internal/resumes"
	"github.com/jonathan/laudatorai/internal/schemas"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &ErrNotFound{Resource: "job", ID: "abc"}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "url", Message: "required"}, http.StatusBadRequest},
		{"payload validation", &schemas.ValidationError{TaskType: "extract_job"}, http.StatusBadRequest},
		{"unsupported format", &ErrUnsupportedFormat{Filename: "resume.txt"}, http.StatusUnsupportedMediaType},
		{"conflict", &ErrConflict{Message: "already completed"}, http.StatusConflict},
		{"parse error", &resumes.ParseError{Filename: "resume.pdf", Message: "no text layer"}, http.StatusUnprocessableEntity},
		{"wrapped not found", fmt.Errorf("lookup: %w", &ErrNotFound{Resource: "resume", ID: "x"}), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "job not found: abc", (&ErrNotFound{Resource: "job", ID: "abc"}).Error())
	assert.Equal(t, "validation error: url - required", (&ErrValidation{Field: "url", Message: "required"}).Error())
	assert.Equal(t, "unsupported file format: a.txt", (&ErrUnsupportedFormat{Filename: "a.txt"}).Error())
}
