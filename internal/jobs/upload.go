package jobs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/aself101/google-genai-api/internal/errclass"
	"github.com/aself101/google-genai-api/internal/gemini"
	"github.com/aself101/google-genai-api/internal/infra"
	"github.com/aself101/google-genai-api/internal/poll"
)

// Uploader pushes a local asset to the Files API and polls its processing
// state with adaptive backoff until it becomes usable. It exclusively owns
// the uploaded file until the batch hands its URI to a submitter, and it is
// responsible for the file's eventual cleanup.
type Uploader struct {
	api      API
	logger   infra.Logger
	policy   poll.Policy
	cooldown time.Duration
	sleep    poll.SleepFunc
}

// NewUploader constructs an Uploader. The policy's adaptive fields drive the
// processing poll; cooldown is the fixed extended wait applied after a
// rate-limited poll instead of the normal curve.
func NewUploader(api API, logger infra.Logger, policy poll.Policy, cooldown time.Duration) *Uploader {
	return &Uploader{
		api:      api,
		logger:   logger,
		policy:   policy,
		cooldown: cooldown,
		sleep:    poll.Sleep,
	}
}

// Upload sends the file at path to the service and waits until the created
// resource reaches the ACTIVE state. A FAILED state or a non-transient poll
// error aborts immediately; exhausting the attempt budget returns a timeout
// error naming the resource, since the remote side may still be processing.
// Once the upload call has created a remote resource, any failure on the way
// to ACTIVE releases that resource before the error is returned, so a file
// whose processing never completes does not linger on the service.
func (u *Uploader) Upload(ctx context.Context, path, mimeType string) (*gemini.File, error) {
	file, err := u.api.UploadFile(ctx, path, mimeType, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}

	u.logger.Info().
		Str("file", file.Name).
		Str("state", file.State).
		Str("mime_type", mimeType).
		Msg("jobs: file uploaded, waiting for processing")

	switch file.State {
	case gemini.FileStateActive:
		return file, nil
	case gemini.FileStateFailed:
		return nil, u.abandon(ctx, file, fmt.Errorf("file %s failed processing: %s", file.Name, failReason(file)))
	}

	rateLimited := false
	for attempt := 0; ; attempt++ {
		latest, err := u.api.GetFile(ctx, file.Name)
		if err != nil {
			if errclass.Classify(err) != errclass.Transient {
				return nil, u.abandon(ctx, file, fmt.Errorf("poll file %s: %w", file.Name, err))
			}
			rateLimited = errclass.RateLimited(err)
			u.logger.Warn().
				Err(err).
				Str("file", file.Name).
				Int("attempt", attempt+1).
				Msg("jobs: transient error while polling file state")
		} else {
			file = latest
			switch file.State {
			case gemini.FileStateActive:
				u.logger.Info().Str("file", file.Name).Msg("jobs: file is active")
				return file, nil
			case gemini.FileStateFailed:
				return nil, u.abandon(ctx, file, fmt.Errorf("file %s failed processing: %s", file.Name, failReason(file)))
			}
			rateLimited = false
		}

		if attempt+1 >= u.policy.MaxAttempts {
			return nil, u.abandon(ctx, file, fmt.Errorf("timed out waiting for file %s to become active after %d polls; the service may still be processing it",
				file.Name, u.policy.MaxAttempts))
		}

		wait := u.policy.Interval(attempt)
		if rateLimited && u.cooldown > 0 {
			wait = u.cooldown
		}
		if err := u.sleep(ctx, wait); err != nil {
			return nil, u.abandon(ctx, file, err)
		}
	}
}

// abandon releases a remote file that never became usable and passes the
// causing error through. Deletion runs even when ctx is already canceled.
func (u *Uploader) abandon(ctx context.Context, file *gemini.File, err error) error {
	u.Cleanup(context.WithoutCancel(ctx), file)
	return err
}

func failReason(file *gemini.File) string {
	if file.Error != nil && file.Error.Message != "" {
		return file.Error.Message
	}
	return "unknown reason"
}

// Cleanup deletes a remote file, best effort. A missing reference is a
// silent no-op; an already-deleted file and any transport failure are logged
// and swallowed. It must run on every exit path of the batch that owns the
// file, including failures.
func (u *Uploader) Cleanup(ctx context.Context, file *gemini.File) {
	if file == nil || file.Name == "" {
		return
	}
	if err := u.api.DeleteFile(ctx, file.Name); err != nil {
		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			u.logger.Debug().Str("file", file.Name).Msg("jobs: file already deleted")
			return
		}
		u.logger.Warn().Err(err).Str("file", file.Name).Msg("jobs: failed to delete remote file")
		return
	}
	u.logger.Debug().Str("file", file.Name).Msg("jobs: deleted remote file")
}
