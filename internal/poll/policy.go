// Package poll holds the polling policies shared by the file and operation
// pollers.
package poll

import (
	"context"
	"time"
)

// Policy is an immutable description of how to poll a remote state. A
// non-zero Fixed interval selects fixed-interval polling; otherwise the
// interval starts at Initial, grows by Multiplier after every non-terminal
// poll, and is capped at Cap. MaxAttempts bounds the total number of polls.
type Policy struct {
	Initial     time.Duration
	Multiplier  float64
	Cap         time.Duration
	MaxAttempts int
	Fixed       time.Duration
}

// Interval returns the wait before poll number attempt (zero-based).
func (p Policy) Interval(attempt int) time.Duration {
	if p.Fixed > 0 {
		return p.Fixed
	}
	interval := float64(p.Initial)
	for i := 0; i < attempt; i++ {
		interval *= p.Multiplier
		if p.Cap > 0 && interval >= float64(p.Cap) {
			return p.Cap
		}
	}
	if p.Cap > 0 && interval > float64(p.Cap) {
		return p.Cap
	}
	return time.Duration(interval)
}

// SleepFunc waits for a duration or until the context is done. Pollers take
// it as a dependency so tests can observe sleeps without waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
