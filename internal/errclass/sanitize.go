package errclass

import "errors"

// Generic user-facing messages, one per classification. Used in hardened
// mode so raw provider text never reaches the caller.
var genericMessages = map[Classification]string{
	Transient:      "a temporary error occurred, please try again",
	Permanent:      "the request could not be completed",
	UserActionable: "the request was rejected; check your input and credentials",
	SafetyBlocked:  "the content was blocked by the service's safety filters",
	AudioBlocked:   "the audio content was blocked by the service's safety filters",
}

// Sanitizer rewrites errors at the boundary between the core and the caller.
// In hardened mode every error is replaced with a generic message for its
// classification; otherwise errors pass through untouched. The original
// error is never mutated.
type Sanitizer struct {
	hardened bool
}

// NewSanitizer constructs a Sanitizer. Hardened mode is decided once at
// construction.
func NewSanitizer(hardened bool) *Sanitizer {
	return &Sanitizer{hardened: hardened}
}

// Sanitize returns the error to present to the caller. Retry loops must not
// call this; they need real classifications to decide whether to retry.
func (s *Sanitizer) Sanitize(err error) error {
	if err == nil || s == nil || !s.hardened {
		return err
	}
	return errors.New(genericMessages[Classify(err)])
}
