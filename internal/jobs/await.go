package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/aself101/google-genai-api/internal/errclass"
	"github.com/aself101/google-genai-api/internal/gemini"
	"github.com/aself101/google-genai-api/internal/infra"
	"github.com/aself101/google-genai-api/internal/poll"
)

// Update reports one completed poll of a still-running operation. Updates
// are delivered in strictly increasing Elapsed order, one per successful
// poll.
type Update struct {
	Operation *gemini.Operation
	Elapsed   time.Duration
}

// Poller drives a long-running operation to a terminal state at a fixed
// interval, retrying transient refresh failures within the attempt budget.
type Poller struct {
	api    API
	logger infra.Logger
	policy poll.Policy
	sleep  poll.SleepFunc
	now    func() time.Time
}

// NewPoller constructs a Poller. The policy's Fixed interval and MaxAttempts
// are the only fields consulted.
func NewPoller(api API, logger infra.Logger, policy poll.Policy) *Poller {
	return &Poller{
		api:    api,
		logger: logger,
		policy: policy,
		sleep:  poll.Sleep,
		now:    time.Now,
	}
}

// Await polls op until it is done or the attempt budget runs out. A handle
// that is already done returns immediately with zero network calls. If
// progress is non-nil, an Update is sent after every successful non-terminal
// poll; a full channel drops the update rather than stalling the poll loop.
//
// Failed refresh attempts classified transient consume an attempt and
// continue without an extra wait, so the next apparent poll gap shortens; a
// transient failure on the final attempt reports the same timeout as an
// exhausted budget. Any other classification aborts immediately. A terminal
// operation carrying an error payload is surfaced as a classified error
// embedding the service's message and code.
//
// The timeout error names the operation and the elapsed wall time: the
// remote job may still be running, and callers can resume tracking it out of
// band using that name.
func (p *Poller) Await(ctx context.Context, op *gemini.Operation, progress chan<- Update) (*gemini.Operation, error) {
	if op == nil {
		return nil, fmt.Errorf("await: no operation handle")
	}
	if op.Done {
		return p.terminal(op)
	}

	start := p.now()
	for attempt := 0; attempt < p.policy.MaxAttempts; attempt++ {
		if err := p.sleep(ctx, p.policy.Interval(attempt)); err != nil {
			return nil, err
		}

		latest, err := p.api.GetOperation(ctx, op.Name)
		if err != nil {
			if errclass.Classify(err) != errclass.Transient {
				return nil, fmt.Errorf("poll operation %s: %w", op.Name, err)
			}
			if attempt+1 >= p.policy.MaxAttempts {
				return nil, p.timeoutError(op.Name, start)
			}
			p.logger.Warn().
				Err(err).
				Str("operation", op.Name).
				Int("attempt", attempt+1).
				Msg("jobs: transient error while polling operation")
			continue
		}

		op = latest
		if op.Done {
			return p.terminal(op)
		}

		elapsed := p.now().Sub(start)
		if progress != nil {
			select {
			case progress <- Update{Operation: op, Elapsed: elapsed}:
			default:
			}
		}
		p.logger.Debug().
			Str("operation", op.Name).
			Dur("elapsed", elapsed).
			Int("attempt", attempt+1).
			Msg("jobs: operation still running")
	}

	return nil, p.timeoutError(op.Name, start)
}

// timeoutError is the exhausted-budget error, also used when the final
// refresh attempt fails transiently: either way the remote job's fate is
// unknown and the caller can re-attach by name.
func (p *Poller) timeoutError(name string, start time.Time) error {
	return fmt.Errorf("timed out after %d polls (%s) waiting for operation %s; the job may still be running server-side and can be resumed by name",
		p.policy.MaxAttempts, p.now().Sub(start).Round(time.Second), name)
}

// terminal inspects a done operation: an error payload becomes a classified
// error, otherwise the handle is returned as-is.
func (p *Poller) terminal(op *gemini.Operation) (*gemini.Operation, error) {
	if op.Error != nil {
		return nil, fmt.Errorf("operation %s failed: %w", op.Name, gemini.OperationError(op.Name, op.Error))
	}
	return op, nil
}
