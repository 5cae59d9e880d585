package jobs

import (
	"context"
	"fmt"

	"github.com/aself101/google-genai-api/internal/gemini"
	"github.com/aself101/google-genai-api/internal/infra"
)

// VideoJob describes one video generation request. The populated media
// fields select the request variant: none for text-only, Image alone for
// image-to-video, Image plus LastFrame for interpolation, ReferenceImages
// for guided generation, Video for extending a prior result. Parameters are
// assumed to have passed validation before submission.
type VideoJob struct {
	Prompt           string
	Model            string
	NegativePrompt   string
	AspectRatio      string
	Resolution       string
	DurationSeconds  int
	PersonGeneration string

	Image           *gemini.Image
	LastFrame       *gemini.Image
	ReferenceImages []*gemini.ReferenceImage
	Video           *gemini.Video
}

// Submitter issues generation requests. It performs exactly one remote call
// per submission and never retries; retry of the resulting operation is the
// poller's job.
type Submitter struct {
	api    API
	logger infra.Logger
}

// NewSubmitter constructs a Submitter.
func NewSubmitter(api API, logger infra.Logger) *Submitter {
	return &Submitter{api: api, logger: logger}
}

// SubmitVideo submits a long-running video job and returns the operation
// handle the service assigned, which may already be terminal for fast jobs.
func (s *Submitter) SubmitVideo(ctx context.Context, job VideoJob) (*gemini.Operation, error) {
	req := &gemini.GenerateVideosRequest{
		Instances: []gemini.VideoInstance{{
			Prompt:          job.Prompt,
			Image:           job.Image,
			LastFrame:       job.LastFrame,
			Video:           job.Video,
			ReferenceImages: job.ReferenceImages,
		}},
	}
	params := &gemini.VideoParameters{
		AspectRatio:      job.AspectRatio,
		Resolution:       job.Resolution,
		DurationSeconds:  job.DurationSeconds,
		NegativePrompt:   job.NegativePrompt,
		PersonGeneration: job.PersonGeneration,
	}
	if *params != (gemini.VideoParameters{}) {
		req.Parameters = params
	}

	op, err := s.api.GenerateVideos(ctx, job.Model, req)
	if err != nil {
		return nil, fmt.Errorf("submit video job: %w", err)
	}

	s.logger.Info().
		Str("operation", op.Name).
		Str("model", job.Model).
		Bool("done", op.Done).
		Msg("jobs: video job submitted")

	return op, nil
}
