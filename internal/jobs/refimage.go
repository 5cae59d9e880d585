package jobs

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aself101/google-genai-api/internal/gemini"
	"github.com/aself101/google-genai-api/internal/validate"
)

// maxReferenceImageBytes caps how much of a remote reference image is read.
const maxReferenceImageBytes = 20 << 20

// LoadImage loads a reference image from a local path or an https URL and
// returns it inlined as base64 for attachment to a video request. Remote
// URLs are validated before any fetch happens.
func LoadImage(ctx context.Context, httpClient *http.Client, source string) (*gemini.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetchRemoteImage(ctx, httpClient, source)
	}

	mimeType, err := validate.SourceFile(source)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("reference %s is not an image (%s)", source, mimeType)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read reference image: %w", err)
	}
	return &gemini.Image{
		BytesBase64Encoded: base64.StdEncoding.EncodeToString(data),
		MimeType:           mimeType,
	}, nil
}

func fetchRemoteImage(ctx context.Context, httpClient *http.Client, source string) (*gemini.Image, error) {
	if err := validate.RemoteImageURL(source); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("create reference request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch reference image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &gemini.APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("fetch reference image %s", source),
		}
	}

	mimeType := resp.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if !strings.HasPrefix(mimeType, "image/") {
		if guessed, err := validate.SourceFileType(filepath.Base(source)); err == nil {
			mimeType = guessed
		} else {
			return nil, fmt.Errorf("reference %s is not an image (%s)", source, mimeType)
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReferenceImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read reference image: %w", err)
	}
	return &gemini.Image{
		BytesBase64Encoded: base64.StdEncoding.EncodeToString(data),
		MimeType:           mimeType,
	}, nil
}
