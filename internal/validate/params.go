// Package validate checks request parameters against per-model constraint
// tables before any remote call is made.
package validate

import (
	"errors"
	"fmt"
)

// ErrUnknownModel indicates the requested model has no constraint table.
var ErrUnknownModel = errors.New("validate: unknown model")

// VideoModel describes what a video generation model supports.
type VideoModel struct {
	AspectRatios       []string
	Resolutions        []string
	Durations          []int
	SupportsLastFrame  bool
	SupportsReferences bool
	SupportsExtension  bool
	MaxReferences      int
}

// ImageModel describes what an image generation model supports.
type ImageModel struct {
	AspectRatios []string
	MaxSamples   int
}

var videoModels = map[string]VideoModel{
	"veo-2.0-generate-001": {
		AspectRatios:       []string{"16:9", "9:16"},
		Resolutions:        []string{"720p"},
		Durations:          []int{5, 6, 7, 8},
		SupportsLastFrame:  true,
		SupportsReferences: false,
		SupportsExtension:  true,
	},
	"veo-3.0-generate-001": {
		AspectRatios:       []string{"16:9", "9:16"},
		Resolutions:        []string{"720p", "1080p"},
		Durations:          []int{4, 6, 8},
		SupportsLastFrame:  false,
		SupportsReferences: true,
		SupportsExtension:  false,
		MaxReferences:      3,
	},
	"veo-3.0-fast-generate-001": {
		AspectRatios:       []string{"16:9", "9:16"},
		Resolutions:        []string{"720p", "1080p"},
		Durations:          []int{4, 6, 8},
		SupportsLastFrame:  false,
		SupportsReferences: true,
		SupportsExtension:  false,
		MaxReferences:      3,
	},
}

var imageModels = map[string]ImageModel{
	"imagen-3.0-generate-002": {
		AspectRatios: []string{"1:1", "3:4", "4:3", "9:16", "16:9"},
		MaxSamples:   4,
	},
	"imagen-4.0-generate-001": {
		AspectRatios: []string{"1:1", "3:4", "4:3", "9:16", "16:9"},
		MaxSamples:   4,
	},
}

// VideoSpec captures the mode and tuning of a video request for validation.
type VideoSpec struct {
	Model           string
	AspectRatio     string
	Resolution      string
	DurationSeconds int
	FirstFrame      bool
	LastFrame       bool
	ReferenceImages int
	Extension       bool
}

// Video verifies a video request against its model's constraint table. It
// must pass before the request is submitted.
func Video(spec VideoSpec) error {
	model, ok := videoModels[spec.Model]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModel, spec.Model)
	}
	if spec.AspectRatio != "" && !contains(model.AspectRatios, spec.AspectRatio) {
		return fmt.Errorf("validate: model %s does not support aspect ratio %s (supported: %v)",
			spec.Model, spec.AspectRatio, model.AspectRatios)
	}
	if spec.Resolution != "" && !contains(model.Resolutions, spec.Resolution) {
		return fmt.Errorf("validate: model %s does not support resolution %s (supported: %v)",
			spec.Model, spec.Resolution, model.Resolutions)
	}
	if spec.DurationSeconds != 0 && !containsInt(model.Durations, spec.DurationSeconds) {
		return fmt.Errorf("validate: model %s does not support duration %ds (supported: %v)",
			spec.Model, spec.DurationSeconds, model.Durations)
	}
	if spec.LastFrame && !spec.FirstFrame {
		return fmt.Errorf("validate: interpolation requires both first and last frames")
	}
	if spec.LastFrame && !model.SupportsLastFrame {
		return fmt.Errorf("validate: model %s does not support first/last frame interpolation", spec.Model)
	}
	if spec.ReferenceImages > 0 {
		if !model.SupportsReferences {
			return fmt.Errorf("validate: model %s does not support reference images", spec.Model)
		}
		if spec.ReferenceImages > model.MaxReferences {
			return fmt.Errorf("validate: model %s supports at most %d reference images, got %d",
				spec.Model, model.MaxReferences, spec.ReferenceImages)
		}
	}
	if spec.Extension && !model.SupportsExtension {
		return fmt.Errorf("validate: model %s does not support extending a prior video", spec.Model)
	}
	return nil
}

// Image verifies an image request against its model's constraint table.
func Image(model, aspectRatio string, samples int) error {
	m, ok := imageModels[model]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	if aspectRatio != "" && !contains(m.AspectRatios, aspectRatio) {
		return fmt.Errorf("validate: model %s does not support aspect ratio %s (supported: %v)",
			model, aspectRatio, m.AspectRatios)
	}
	if samples < 1 || samples > m.MaxSamples {
		return fmt.Errorf("validate: model %s supports 1-%d samples, got %d", model, m.MaxSamples, samples)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
