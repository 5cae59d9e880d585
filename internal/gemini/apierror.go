package gemini

import (
	"fmt"
	"strings"
)

// APIError is a structured failure from the generative service: a non-2xx
// HTTP response, or the error payload of a failed long-running operation.
// StatusCode holds the HTTP status when the failure came from the transport;
// Code and Status carry the service-level google.rpc values when present.
type APIError struct {
	StatusCode int
	Code       int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("gemini")
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " status %d", e.StatusCode)
	} else if e.Code > 0 {
		fmt.Fprintf(&b, " code %d", e.Code)
	}
	if e.Status != "" {
		fmt.Fprintf(&b, " (%s)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// OperationError converts a failed operation's status payload into an
// APIError so it flows through the same classification path as transport
// failures.
func OperationError(name string, status *Status) error {
	if status == nil {
		return &APIError{Message: fmt.Sprintf("operation %s failed without an error payload", name)}
	}
	return &APIError{
		Code:    status.Code,
		Status:  status.Status,
		Message: status.Message,
	}
}
