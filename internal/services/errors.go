package services

import "fmt"

// ValidationError is returned when a request is rejected before any upstream call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// UpstreamError wraps any failure talking to the completion service:
// transport errors, non-2xx statuses and unparsable payloads.
// Status is zero when no response was received.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0 && e.Body != "":
		return fmt.Sprintf("upstream error (%d): %s", e.Status, e.Body)
	case e.Status != 0:
		return fmt.Sprintf("upstream error (%d): %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("upstream error: %v", e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }
