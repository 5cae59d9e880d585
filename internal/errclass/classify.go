// Package errclass maps raw transport and service errors into a small,
// actionable taxonomy. Classification keys off structured status codes when
// the error carries them; message heuristics are a documented fallback for
// errors lacking structure (wrapped transport failures, legacy wordings).
package errclass

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/aself101/google-genai-api/internal/gemini"
)

// Classification tags an error with how the caller should react.
type Classification string

const (
	// Transient failures may succeed on retry with backoff.
	Transient Classification = "TRANSIENT"
	// Permanent failures should surface to the caller and never retry.
	Permanent Classification = "PERMANENT"
	// UserActionable failures mean the caller's input or credentials are
	// wrong and can be fixed by the caller.
	UserActionable Classification = "USER_ACTIONABLE"
	// SafetyBlocked means the service rejected the content.
	SafetyBlocked Classification = "SAFETY_BLOCKED"
	// AudioBlocked means the audio portion of the content was rejected.
	AudioBlocked Classification = "AUDIO_BLOCKED"
)

// Classify returns exactly one classification for any error. Rules apply in
// precedence order; when no rule matches the result is Permanent, so an
// error is never retried unless positively identified as transient.
func Classify(err error) Classification {
	if err == nil {
		return Permanent
	}

	msg := strings.ToLower(err.Error())

	var apiErr *gemini.APIError
	hasStatus := errors.As(err, &apiErr)

	// Safety rejections first: they often arrive with otherwise
	// permanent-looking statuses and must surface distinctly.
	if containsAny(msg, safetyMarkers) {
		if strings.Contains(msg, "audio") {
			return AudioBlocked
		}
		return SafetyBlocked
	}

	// Wrong input or credentials: fixable by the caller. A 404 that also
	// reads "not found" lands here, never in a retry bucket.
	if hasStatus {
		switch {
		case apiErr.StatusCode == http.StatusNotFound,
			apiErr.Status == "NOT_FOUND",
			apiErr.Status == "INVALID_ARGUMENT",
			apiErr.Status == "UNAUTHENTICATED",
			apiErr.Status == "FAILED_PRECONDITION":
			return UserActionable
		}
	}
	if containsAny(msg, userMarkers) {
		return UserActionable
	}

	if hasStatus {
		switch apiErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized,
			http.StatusForbidden, http.StatusUnprocessableEntity:
			return Permanent
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable:
			return Transient
		}
		switch apiErr.Status {
		case "RESOURCE_EXHAUSTED", "UNAVAILABLE", "DEADLINE_EXCEEDED":
			return Transient
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Transient
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Transient
	}
	if containsAny(msg, transientMarkers) {
		return Transient
	}

	return Permanent
}

// RateLimited reports whether the error is specifically a rate-limit
// rejection, which pollers treat with an extended cooldown rather than the
// normal backoff curve.
func RateLimited(err error) bool {
	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	return false
}

var safetyMarkers = []string{
	"safety",
	"content policy",
	"policy violation",
	"prohibited content",
	"responsible ai",
	"blocked by safety",
}

var userMarkers = []string{
	"api key",
	"credential",
	"unauthenticated",
	"not found",
	"invalid",
	"validation",
}

var transientMarkers = []string{
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"network",
	"temporarily unavailable",
	"broken pipe",
}

func containsAny(msg string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
