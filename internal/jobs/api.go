// Package jobs orchestrates generation jobs against the remote service:
// submitting requests, polling long-running operations and uploaded files to
// a terminal state, downloading results, and cleaning up remote assets.
package jobs

import (
	"context"

	"github.com/aself101/google-genai-api/internal/gemini"
)

// API is the slice of the remote service the orchestrator consumes. The
// production implementation is *gemini.Client; tests substitute stubs.
type API interface {
	GenerateImages(ctx context.Context, model string, req *gemini.PredictRequest) (*gemini.PredictResponse, error)
	GenerateVideos(ctx context.Context, model string, req *gemini.GenerateVideosRequest) (*gemini.Operation, error)
	GenerateContent(ctx context.Context, model string, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error)
	GetOperation(ctx context.Context, name string) (*gemini.Operation, error)
	UploadFile(ctx context.Context, path, mimeType, displayName string) (*gemini.File, error)
	GetFile(ctx context.Context, name string) (*gemini.File, error)
	DeleteFile(ctx context.Context, name string) error
	Download(ctx context.Context, uri string) ([]byte, string, error)
}

var _ API = (*gemini.Client)(nil)
