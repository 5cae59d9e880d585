package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aself101/google-genai-api/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey            string
	BaseURL           string
	HTTPClient        *http.Client
	Logger            *infra.Logger
	RequestsPerMinute int
}

// Client performs HTTP calls against the generative-media service. It covers
// the three call families the tool needs: immediate generation (predict,
// generateContent), long-running operations (predictLongRunning plus
// operation refresh), and Files API asset management. A client-side rate
// limiter paces outgoing requests so bursts of polls do not trip quota.
type Client struct {
	apiKey     string
	baseURL    string
	uploadURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *infra.Logger
}

type errorResponse struct {
	Error Status `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a sensible timeout will be
// created.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	// The Files API uses a distinct media-upload prefix.
	uploadURL := strings.Replace(baseURL, "/v1beta", "/upload/v1beta", 1)

	perMinute := opts.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		uploadURL:  uploadURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		logger:     logger,
	}, nil
}

// GenerateImages issues a synchronous image generation request. The result
// payload is returned directly; there is no operation to poll.
func (c *Client) GenerateImages(ctx context.Context, model string, req *PredictRequest) (*PredictResponse, error) {
	var resp PredictResponse
	path := fmt.Sprintf("/models/%s:predict", url.PathEscape(model))
	if err := c.invoke(ctx, http.MethodPost, c.baseURL+path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateVideos submits a long-running video generation job and returns the
// operation handle, which may already be terminal for fast jobs.
func (c *Client) GenerateVideos(ctx context.Context, model string, req *GenerateVideosRequest) (*Operation, error) {
	var op Operation
	path := fmt.Sprintf("/models/%s:predictLongRunning", url.PathEscape(model))
	if err := c.invoke(ctx, http.MethodPost, c.baseURL+path, req, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// GenerateContent issues a synchronous content request, used for analysis
// prompts that reference an uploaded video.
func (c *Client) GenerateContent(ctx context.Context, model string, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	var resp GenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(model))
	if err := c.invoke(ctx, http.MethodPost, c.baseURL+path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOperation refreshes a long-running operation by its resource name, e.g.
// "models/veo-2.0-generate-001/operations/abc123".
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	var op Operation
	if err := c.invoke(ctx, http.MethodGet, c.baseURL+"/"+strings.TrimLeft(name, "/"), nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// UploadFile uploads a local file to the Files API and returns the created
// resource, typically still in the PENDING or PROCESSING state.
func (c *Client) UploadFile(ctx context.Context, path, mimeType, displayName string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+"/files", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("X-Goog-Upload-Protocol", "raw")
	if displayName != "" {
		req.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)
		req.Header.Set("X-Goog-File-Name", displayName)
	}

	c.logger.Debug().
		Str("path", path).
		Str("mime_type", mimeType).
		Int("size_bytes", len(data)).
		Msg("gemini: uploading file")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeError(resp)
	}

	var envelope fileEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if envelope.File == nil {
		return nil, fmt.Errorf("upload response missing file resource")
	}
	return envelope.File, nil
}

// GetFile fetches the current state of an uploaded file by its resource
// name, e.g. "files/abc123".
func (c *Client) GetFile(ctx context.Context, name string) (*File, error) {
	var file File
	if err := c.invoke(ctx, http.MethodGet, c.baseURL+"/"+strings.TrimLeft(name, "/"), nil, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteFile deletes an uploaded file by its resource name.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	return c.invoke(ctx, http.MethodDelete, c.baseURL+"/"+strings.TrimLeft(name, "/"), nil, nil)
}

// Download fetches artifact bytes from a file URI returned by a finished
// operation. Relative URIs are resolved against the configured base URL.
func (c *Client) Download(ctx context.Context, uri string) ([]byte, string, error) {
	target := uri
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(uri, "/")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	if q.Get("alt") == "" {
		q.Set("alt", "media")
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", c.decodeError(resp)
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return blob, resp.Header.Get("Content-Type"), nil
}

func (c *Client) invoke(ctx context.Context, method, endpoint string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError, keeping the HTTP
// status and, when the body carries a structured error payload, the service
// status and message.
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var parsed errorResponse
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error.Message != "" {
		apiErr.Code = parsed.Error.Code
		apiErr.Status = parsed.Error.Status
		apiErr.Message = parsed.Error.Message
	} else if len(data) > 0 {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	return apiErr
}
