// Package rendering turns structured resume and cover letter content into
// DOCX and PDF documents.
package rendering

import "fmt"

func formatCaused(kind, message string, cause error) string {
	if cause != nil {
		return fmt.Sprintf("%s error: %s: %v", kind, message, cause)
	}
	return fmt.Sprintf("%s error: %s", kind, message)
}

// TemplateError reports a failure parsing or executing an HTML template.
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string { return formatCaused("template", e.Message, e.Cause) }
func (e *TemplateError) Unwrap() error { return e.Cause }

// RenderError reports a document generation failure outside templating,
// such as DOCX assembly or the PDF print step.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string { return formatCaused("render", e.Message, e.Cause) }
func (e *RenderError) Unwrap() error { return e.Cause }
