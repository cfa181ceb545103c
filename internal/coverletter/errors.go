package coverletter

import "fmt"

// Error represents a cover letter generation failure.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cover letter generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cover letter generation failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
