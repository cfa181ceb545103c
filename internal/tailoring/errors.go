package tailoring

import "fmt"

// Error represents a tailoring failure. The pipeline treats it as
// non-fatal and falls back to the untailored resume once retries run out.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tailoring failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("tailoring failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
