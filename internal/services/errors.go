package services

import (
	"fmt"
	"time"
)

// ValidationError means the client input was rejected before any model call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// UpstreamError carries the status and raw body of a failed provider call
// for diagnostics. Never retried automatically: generative calls are costly
// and a retry is a manual user action.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream provider error (status %d): %s", e.Status, e.Body)
}

// TimeoutError means the model call exceeded its deadline.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("model call timed out after %s", e.Timeout)
}

// EmptyResponseError means the provider answered without a text candidate.
type EmptyResponseError struct{}

func (e *EmptyResponseError) Error() string {
	return "model returned no text candidate"
}

// SchemaError means the model's output did not match the expected structure.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("malformed model output: %s", e.Reason)
}
