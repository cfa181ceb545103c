package resumes

import "fmt"

// ParseError represents a failure to parse a resume file.
type ParseError struct {
	Filename string
	Message  string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume parse error for %s: %s: %v", e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("resume parse error for %s: %s", e.Filename, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
