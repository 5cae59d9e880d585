package errclass

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aself101/google-genai-api/internal/gemini"
)

func TestClassifyStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Classification
	}{
		{"bad request", &gemini.APIError{StatusCode: 400, Message: "malformed body"}, Permanent},
		{"unauthorized", &gemini.APIError{StatusCode: 401, Message: "missing auth"}, Permanent},
		{"forbidden", &gemini.APIError{StatusCode: 403, Message: "denied"}, Permanent},
		{"unprocessable", &gemini.APIError{StatusCode: 422, Message: "cannot process"}, Permanent},
		{"rate limited", &gemini.APIError{StatusCode: 429, Message: "quota exceeded"}, Transient},
		{"bad gateway", &gemini.APIError{StatusCode: 502, Message: "upstream failure"}, Transient},
		{"unavailable", &gemini.APIError{StatusCode: 503, Message: "try later"}, Transient},
		{"not found", &gemini.APIError{StatusCode: 404, Message: "no such resource"}, UserActionable},
		{"unknown status", &gemini.APIError{StatusCode: 500, Message: "boom"}, Permanent},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Errorf("%s: Classify = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestClassifyServiceStatusStrings(t *testing.T) {
	cases := []struct {
		status string
		want   Classification
	}{
		{"RESOURCE_EXHAUSTED", Transient},
		{"UNAVAILABLE", Transient},
		{"DEADLINE_EXCEEDED", Transient},
		{"NOT_FOUND", UserActionable},
		{"INVALID_ARGUMENT", UserActionable},
		{"UNAUTHENTICATED", UserActionable},
	}
	for _, tc := range cases {
		err := &gemini.APIError{Code: 13, Status: tc.status, Message: "service reported failure"}
		if got := Classify(err); got != tc.want {
			t.Errorf("%s: Classify = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestClassifyMessageHeuristics(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Classification
	}{
		{"timeout", errors.New("request timed out"), Transient},
		{"connection reset", errors.New("read tcp: connection reset by peer"), Transient},
		{"network", errors.New("network is unreachable"), Transient},
		{"api key", errors.New("API key not valid. Please pass a valid API key."), UserActionable},
		{"not found text", errors.New("file not found"), UserActionable},
		{"validation", errors.New("validation failed for field duration"), UserActionable},
		{"unclassifiable", errors.New("something odd happened"), Permanent},
		{"wrapped transient", fmt.Errorf("poll operation: %w", errors.New("connection refused")), Transient},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Errorf("%s: Classify = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestClassifySafetyMarkers(t *testing.T) {
	if got := Classify(errors.New("the request was blocked by safety settings")); got != SafetyBlocked {
		t.Fatalf("Classify = %s, want SAFETY_BLOCKED", got)
	}
	if got := Classify(errors.New("audio content violates the content policy")); got != AudioBlocked {
		t.Fatalf("Classify = %s, want AUDIO_BLOCKED", got)
	}
	// Safety takes precedence over an otherwise permanent status.
	err := &gemini.APIError{StatusCode: 400, Message: "prompt was blocked by safety filters"}
	if got := Classify(err); got != SafetyBlocked {
		t.Fatalf("Classify = %s, want SAFETY_BLOCKED", got)
	}
	// "blocked" alone is not a safety signal.
	if got := Classify(errors.New("request blocked by firewall")); got == SafetyBlocked {
		t.Fatal("non-safety blocking must not classify as SAFETY_BLOCKED")
	}
}

func TestClassifyNotFoundBeatsTransientBuckets(t *testing.T) {
	// A 404 that also reads "not found" must classify as user-actionable,
	// never as something retryable.
	err := &gemini.APIError{StatusCode: 404, Message: "operation not found"}
	if got := Classify(err); got != UserActionable {
		t.Fatalf("Classify = %s, want USER_ACTIONABLE", got)
	}
}

func TestClassifyContextDeadline(t *testing.T) {
	err := fmt.Errorf("call failed: %w", context.DeadlineExceeded)
	if got := Classify(err); got != Transient {
		t.Fatalf("Classify = %s, want TRANSIENT", got)
	}
}

func TestRateLimited(t *testing.T) {
	if !RateLimited(&gemini.APIError{StatusCode: 429}) {
		t.Fatal("429 should be rate limited")
	}
	if !RateLimited(&gemini.APIError{Status: "RESOURCE_EXHAUSTED"}) {
		t.Fatal("RESOURCE_EXHAUSTED should be rate limited")
	}
	if RateLimited(&gemini.APIError{StatusCode: 503}) {
		t.Fatal("503 is transient but not rate limited")
	}
	if RateLimited(errors.New("quota exceeded")) {
		t.Fatal("unstructured errors are not rate limited")
	}
}
