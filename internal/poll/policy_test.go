package poll

import (
	"context"
	"testing"
	"time"
)

func TestIntervalAdaptiveSequence(t *testing.T) {
	p := Policy{Initial: 100 * time.Millisecond, Multiplier: 1.5, Cap: 30 * time.Second}
	want := []time.Duration{
		100 * time.Millisecond,
		150 * time.Millisecond,
		225 * time.Millisecond,
		337500 * time.Microsecond,
	}
	for i, w := range want {
		if got := p.Interval(i); got != w {
			t.Errorf("Interval(%d) = %s, want %s", i, got, w)
		}
	}
}

func TestIntervalHonorsCap(t *testing.T) {
	p := Policy{Initial: 10 * time.Second, Multiplier: 1.5, Cap: 30 * time.Second}
	if got := p.Interval(2); got != 22500*time.Millisecond {
		t.Fatalf("Interval(2) = %s, want 22.5s", got)
	}
	if got := p.Interval(3); got != 30*time.Second {
		t.Fatalf("Interval(3) = %s, want cap", got)
	}
	if got := p.Interval(50); got != 30*time.Second {
		t.Fatalf("Interval(50) = %s, want cap to hold indefinitely", got)
	}
}

func TestIntervalFixedWins(t *testing.T) {
	p := Policy{Initial: time.Second, Multiplier: 2, Cap: time.Minute, Fixed: 10 * time.Second}
	for _, attempt := range []int{0, 1, 7} {
		if got := p.Interval(attempt); got != 10*time.Second {
			t.Fatalf("Interval(%d) = %s, want fixed 10s", attempt, got)
		}
	}
}

func TestSleepReturnsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); err != context.Canceled {
		t.Fatalf("Sleep = %v, want context.Canceled", err)
	}
}

func TestSleepCompletesShortWait(t *testing.T) {
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("Sleep = %v, want nil", err)
	}
}
