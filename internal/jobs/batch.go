package jobs

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aself101/google-genai-api/internal/errclass"
	"github.com/aself101/google-genai-api/internal/gemini"
	"github.com/aself101/google-genai-api/internal/infra"
	"github.com/aself101/google-genai-api/internal/storage"
	"github.com/aself101/google-genai-api/internal/validate"
)

// Runner sequences jobs end to end: validate, submit, poll, download,
// persist, clean up. Execution is strictly sequential; a failure aborts the
// remaining jobs in the batch, but scoped releases (remote file cleanup)
// still run. Errors are sanitized exactly once, at this boundary, so the
// retry loops underneath always see real classifications.
type Runner struct {
	api        API
	uploader   *Uploader
	submitter  *Submitter
	poller     *Poller
	downloader *Downloader
	store      *storage.Store
	sanitizer  *errclass.Sanitizer
	logger     infra.Logger
}

// NewRunner wires a Runner from its collaborators.
func NewRunner(api API, uploader *Uploader, submitter *Submitter, poller *Poller, downloader *Downloader, store *storage.Store, sanitizer *errclass.Sanitizer, logger infra.Logger) *Runner {
	return &Runner{
		api:        api,
		uploader:   uploader,
		submitter:  submitter,
		poller:     poller,
		downloader: downloader,
		store:      store,
		sanitizer:  sanitizer,
		logger:     logger,
	}
}

// RunVideos executes each video job in order. Job N+1 does not begin until
// job N's artifact is written to disk. Results for completed jobs are
// returned even when a later job fails.
func (r *Runner) RunVideos(ctx context.Context, vjobs []VideoJob, progress chan<- Update) ([]DownloadResult, error) {
	results := make([]DownloadResult, 0, len(vjobs))
	for i, job := range vjobs {
		requestID := uuid.NewString()
		logger := r.logger.With().Str("request_id", requestID).Int("job", i+1).Logger()

		if err := validate.Video(videoSpec(job)); err != nil {
			return results, r.sanitizer.Sanitize(err)
		}

		logger.Info().Str("model", job.Model).Msg("jobs: starting video job")

		op, err := r.submitter.SubmitVideo(ctx, job)
		if err != nil {
			return results, r.sanitizer.Sanitize(err)
		}
		op, err = r.poller.Await(ctx, op, progress)
		if err != nil {
			return results, r.sanitizer.Sanitize(err)
		}

		key := fmt.Sprintf("video/%s-%02d.mp4", shortID(requestID), i+1)
		result, err := r.downloader.Download(ctx, op, key)
		if err != nil {
			return results, r.sanitizer.Sanitize(err)
		}
		results = append(results, *result)
	}
	return results, nil
}

// ResumeVideo re-attaches to a previously submitted operation by name,
// polls it to completion, and downloads the result. It exists because a
// local poll timeout does not cancel the remote job.
func (r *Runner) ResumeVideo(ctx context.Context, name string, progress chan<- Update) (*DownloadResult, error) {
	op, err := r.api.GetOperation(ctx, name)
	if err != nil {
		return nil, r.sanitizer.Sanitize(fmt.Errorf("fetch operation %s: %w", name, err))
	}
	op, err = r.poller.Await(ctx, op, progress)
	if err != nil {
		return nil, r.sanitizer.Sanitize(err)
	}
	key := fmt.Sprintf("video/%s.mp4", shortID(uuid.NewString()))
	result, err := r.downloader.Download(ctx, op, key)
	if err != nil {
		return nil, r.sanitizer.Sanitize(err)
	}
	return result, nil
}

// VideoFromOperation resolves a finished operation into a video reference
// suitable for an extension request.
func (r *Runner) VideoFromOperation(ctx context.Context, name string) (*gemini.Video, error) {
	op, err := r.api.GetOperation(ctx, name)
	if err != nil {
		return nil, r.sanitizer.Sanitize(fmt.Errorf("fetch operation %s: %w", name, err))
	}
	uri, err := ExtractVideoURI(op)
	if err != nil {
		return nil, r.sanitizer.Sanitize(err)
	}
	return &gemini.Video{URI: uri, MimeType: "video/mp4"}, nil
}

// AnalysisPrompt is one question to ask about an uploaded video, optionally
// restricted to a clip. Offsets are whole seconds, already validated
// (end > start) by the caller.
type AnalysisPrompt struct {
	Text         string
	StartSeconds int
	EndSeconds   int
}

// AnalyzeVideo uploads the video at path once, waits until it is usable,
// runs every prompt against that single asset, and deletes the remote file
// exactly once after all prompts finish or after the first failure. The
// written answer paths for completed prompts are returned either way.
func (r *Runner) AnalyzeVideo(ctx context.Context, path, model string, prompts []AnalysisPrompt) ([]string, error) {
	mimeType, err := validate.SourceFile(path)
	if err != nil {
		return nil, r.sanitizer.Sanitize(err)
	}

	file, err := r.uploader.Upload(ctx, path, mimeType)
	if err != nil {
		return nil, r.sanitizer.Sanitize(err)
	}
	// Release the remote file on every exit path, even when ctx is
	// already canceled.
	defer r.uploader.Cleanup(context.WithoutCancel(ctx), file)

	requestID := uuid.NewString()
	paths := make([]string, 0, len(prompts))
	for i, prompt := range prompts {
		resp, err := r.api.GenerateContent(ctx, model, analysisRequest(file, mimeType, prompt))
		if err != nil {
			return paths, r.sanitizer.Sanitize(fmt.Errorf("analysis prompt %d: %w", i+1, err))
		}
		text := resp.Text()
		if text == "" {
			return paths, r.sanitizer.Sanitize(fmt.Errorf("analysis prompt %d: no result in response", i+1))
		}

		key := fmt.Sprintf("analysis/%s-%02d.txt", shortID(requestID), i+1)
		written, err := r.store.Write(key, []byte(text))
		if err != nil {
			return paths, r.sanitizer.Sanitize(err)
		}
		paths = append(paths, written)

		r.logger.Info().
			Str("request_id", requestID).
			Int("prompt", i+1).
			Str("path", written).
			Msg("jobs: analysis answer saved")
	}
	return paths, nil
}

// ImageJob describes one synchronous image generation request.
type ImageJob struct {
	Prompt           string
	Model            string
	AspectRatio      string
	Samples          int
	PersonGeneration string
}

// RunImages executes a synchronous image generation job and writes each
// returned candidate to disk.
func (r *Runner) RunImages(ctx context.Context, job ImageJob) ([]string, error) {
	if err := validate.Image(job.Model, job.AspectRatio, job.Samples); err != nil {
		return nil, r.sanitizer.Sanitize(err)
	}

	requestID := uuid.NewString()
	resp, err := r.api.GenerateImages(ctx, job.Model, &gemini.PredictRequest{
		Instances: []gemini.ImageInstance{{Prompt: job.Prompt}},
		Parameters: &gemini.ImageParameters{
			SampleCount:      job.Samples,
			AspectRatio:      job.AspectRatio,
			PersonGeneration: job.PersonGeneration,
		},
	})
	if err != nil {
		return nil, r.sanitizer.Sanitize(fmt.Errorf("generate images: %w", err))
	}

	var filteredReasons []string
	paths := make([]string, 0, len(resp.Predictions))
	for i, prediction := range resp.Predictions {
		if prediction.RaiFilteredReason != "" {
			filteredReasons = append(filteredReasons, prediction.RaiFilteredReason)
			continue
		}
		data, err := base64.StdEncoding.DecodeString(prediction.BytesBase64Encoded)
		if err != nil {
			return paths, r.sanitizer.Sanitize(fmt.Errorf("decode image candidate %d: %w", i+1, err))
		}
		key := fmt.Sprintf("image/%s-%02d%s", shortID(requestID), i+1, extensionFor(prediction.MimeType))
		written, err := r.store.Write(key, data)
		if err != nil {
			return paths, r.sanitizer.Sanitize(err)
		}
		paths = append(paths, written)
	}

	if len(paths) == 0 {
		if len(filteredReasons) > 0 {
			return nil, r.sanitizer.Sanitize(fmt.Errorf("images were blocked by safety filters: %s",
				strings.Join(filteredReasons, "; ")))
		}
		return nil, r.sanitizer.Sanitize(fmt.Errorf("no result in response"))
	}

	r.logger.Info().
		Str("request_id", requestID).
		Str("model", job.Model).
		Int("saved", len(paths)).
		Msg("jobs: image job finished")

	return paths, nil
}

func videoSpec(job VideoJob) validate.VideoSpec {
	return validate.VideoSpec{
		Model:           job.Model,
		AspectRatio:     job.AspectRatio,
		Resolution:      job.Resolution,
		DurationSeconds: job.DurationSeconds,
		FirstFrame:      job.Image != nil,
		LastFrame:       job.LastFrame != nil,
		ReferenceImages: len(job.ReferenceImages),
		Extension:       job.Video != nil,
	}
}

func analysisRequest(file *gemini.File, mimeType string, prompt AnalysisPrompt) *gemini.GenerateContentRequest {
	filePart := gemini.Part{
		FileData: &gemini.FileData{MimeType: mimeType, FileURI: file.URI},
	}
	if prompt.EndSeconds > prompt.StartSeconds {
		filePart.VideoMetadata = &gemini.VideoMetadata{
			StartOffset: fmt.Sprintf("%ds", prompt.StartSeconds),
			EndOffset:   fmt.Sprintf("%ds", prompt.EndSeconds),
		}
	}
	return &gemini.GenerateContentRequest{
		Contents: []gemini.Content{{
			Role:  "user",
			Parts: []gemini.Part{filePart, {Text: prompt.Text}},
		}},
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func shortID(id string) string {
	return strings.ReplaceAll(id, "-", "")[:12]
}
