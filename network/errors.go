package network

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed indicates the client could not reach the gateway.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrInvalidResponse indicates the gateway returned a malformed or
	// unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrContentNotFound indicates the gateway has no content for the id.
	ErrContentNotFound = errors.New("network: content not found")

	// ErrSubmissionFailed is the sentinel all *SubmissionError values
	// unwrap to.
	ErrSubmissionFailed = errors.New("network: submission failed")
)

// SubmissionError reports a non-success HTTP status for a record
// submission. The gateway's response body is captured (truncated) so the
// caller can distinguish a rejection from an outage.
type SubmissionError struct {
	StatusCode int
	Body       string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("network: submission failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets errors.Is match ErrSubmissionFailed while errors.As still
// extracts the status code and body.
func (e *SubmissionError) Unwrap() error {
	return ErrSubmissionFailed
}
