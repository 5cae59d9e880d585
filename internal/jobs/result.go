package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aself101/google-genai-api/internal/gemini"
	"github.com/aself101/google-genai-api/internal/infra"
	"github.com/aself101/google-genai-api/internal/storage"
)

// DownloadResult reports where an artifact was written and the remote
// reference it came from. The reference is useful for chaining, e.g. feeding
// a generated video into an extension request.
type DownloadResult struct {
	Path string
	URI  string
}

// ExtractVideoURI pulls the result reference out of a terminal, successful
// operation. Calling it on a non-terminal handle, or on one whose payload
// lacks a result, is a permanent error: it guards against callers skipping
// the poller.
func ExtractVideoURI(op *gemini.Operation) (string, error) {
	if op == nil || !op.Done {
		return "", fmt.Errorf("operation is not complete")
	}
	if op.Error != nil {
		return "", fmt.Errorf("operation %s failed: %w", op.Name, gemini.OperationError(op.Name, op.Error))
	}
	if len(op.Response) == 0 {
		return "", fmt.Errorf("no result in response")
	}

	var resp gemini.GenerateVideosResponse
	if err := json.Unmarshal(op.Response, &resp); err != nil {
		return "", fmt.Errorf("decode operation response: %w", err)
	}
	results := resp.GenerateVideoResponse
	if results == nil || len(results.GeneratedSamples) == 0 {
		if results != nil && len(results.RaiMediaFilteredReasons) > 0 {
			return "", fmt.Errorf("video was blocked by safety filters: %s",
				strings.Join(results.RaiMediaFilteredReasons, "; "))
		}
		return "", fmt.Errorf("no result in response")
	}
	video := results.GeneratedSamples[0].Video
	if video == nil || video.URI == "" {
		return "", fmt.Errorf("no result in response")
	}
	return video.URI, nil
}

// Downloader transfers finished artifacts to local storage.
type Downloader struct {
	api    API
	store  *storage.Store
	logger infra.Logger
}

// NewDownloader constructs a Downloader writing under store's root.
func NewDownloader(api API, store *storage.Store, logger infra.Logger) *Downloader {
	return &Downloader{api: api, store: store, logger: logger}
}

// Download extracts the result reference from a terminal operation, fetches
// the artifact, and writes it under the given storage key. The store creates
// parent directories as needed.
func (d *Downloader) Download(ctx context.Context, op *gemini.Operation, key string) (*DownloadResult, error) {
	uri, err := ExtractVideoURI(op)
	if err != nil {
		return nil, err
	}

	data, _, err := d.api.Download(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("download result: %w", err)
	}

	path, err := d.store.Write(key, data)
	if err != nil {
		return nil, err
	}

	d.logger.Info().
		Str("operation", op.Name).
		Str("path", path).
		Int("size_bytes", len(data)).
		Msg("jobs: result downloaded")

	return &DownloadResult{Path: path, URI: uri}, nil
}
