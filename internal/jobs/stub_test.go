package jobs

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/aself101/google-genai-api/internal/gemini"
	"github.com/aself101/google-genai-api/internal/infra"
)

func discardLogger() infra.Logger {
	return zerolog.New(io.Discard)
}

type opResult struct {
	op  *gemini.Operation
	err error
}

type fileResult struct {
	file *gemini.File
	err  error
}

type contentResult struct {
	resp *gemini.GenerateContentResponse
	err  error
}

// stubAPI implements API with queued responses and call counters.
type stubAPI struct {
	uploadFile *gemini.File
	uploadErr  error
	uploads    int

	fileQueue    []fileResult
	getFileCalls int

	opQueue    []opResult
	getOpCalls int

	submitOp    *gemini.Operation
	submitErr   error
	submits     int
	lastRequest *gemini.GenerateVideosRequest

	contentQueue    []contentResult
	contentCalls    int
	contentRequests []*gemini.GenerateContentRequest

	predictResp *gemini.PredictResponse
	predictErr  error
	predicts    int

	downloadData  []byte
	downloadErr   error
	downloads     int
	downloadedURI string

	deleteErr   error
	deletes     int
	deletedName string
}

func (s *stubAPI) GenerateImages(ctx context.Context, model string, req *gemini.PredictRequest) (*gemini.PredictResponse, error) {
	s.predicts++
	if s.predictErr != nil {
		return nil, s.predictErr
	}
	return s.predictResp, nil
}

func (s *stubAPI) GenerateVideos(ctx context.Context, model string, req *gemini.GenerateVideosRequest) (*gemini.Operation, error) {
	s.submits++
	s.lastRequest = req
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.submitOp, nil
}

func (s *stubAPI) GenerateContent(ctx context.Context, model string, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error) {
	s.contentCalls++
	s.contentRequests = append(s.contentRequests, req)
	if len(s.contentQueue) > 0 {
		next := s.contentQueue[0]
		s.contentQueue = s.contentQueue[1:]
		return next.resp, next.err
	}
	return &gemini.GenerateContentResponse{}, nil
}

func (s *stubAPI) GetOperation(ctx context.Context, name string) (*gemini.Operation, error) {
	s.getOpCalls++
	if len(s.opQueue) == 0 {
		return &gemini.Operation{Name: name}, nil
	}
	next := s.opQueue[0]
	s.opQueue = s.opQueue[1:]
	return next.op, next.err
}

func (s *stubAPI) UploadFile(ctx context.Context, path, mimeType, displayName string) (*gemini.File, error) {
	s.uploads++
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return s.uploadFile, nil
}

func (s *stubAPI) GetFile(ctx context.Context, name string) (*gemini.File, error) {
	s.getFileCalls++
	if len(s.fileQueue) == 0 {
		return &gemini.File{Name: name, State: gemini.FileStateProcessing}, nil
	}
	next := s.fileQueue[0]
	s.fileQueue = s.fileQueue[1:]
	return next.file, next.err
}

func (s *stubAPI) DeleteFile(ctx context.Context, name string) error {
	s.deletes++
	s.deletedName = name
	return s.deleteErr
}

func (s *stubAPI) Download(ctx context.Context, uri string) ([]byte, string, error) {
	s.downloads++
	s.downloadedURI = uri
	if s.downloadErr != nil {
		return nil, "", s.downloadErr
	}
	return s.downloadData, "video/mp4", nil
}

// sleepRecorder captures requested sleep durations without waiting.
type sleepRecorder struct {
	waits []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return ctx.Err()
}

// fakeClock advances by a fixed step every time it is read.
type fakeClock struct {
	current time.Time
	step    time.Duration
}

func (c *fakeClock) now() time.Time {
	c.current = c.current.Add(c.step)
	return c.current
}
