package bmlt

import (
	"fmt"
	"net/http"
)

// StatusError is returned when the BMLT endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "BMLT API returned " + e.StatusLine()
}

// StatusLine returns the status code and reason phrase, e.g. "503 Service Unavailable".
func (e *StatusError) StatusLine() string {
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// PayloadError is returned when the response body cannot be turned into meetings.
type PayloadError struct {
	Reason string
	Err    error
}

func (e *PayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse BMLT response: %s: %v", e.Reason, e.Err)
	}
	return "failed to parse BMLT response: " + e.Reason
}

func (e *PayloadError) Unwrap() error { return e.Err }

// APIError carries the message of an `error` field reported by the BMLT API.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }
