package gemini

import "encoding/json"

// File processing states reported by the Files API.
const (
	FileStatePending    = "PENDING"
	FileStateProcessing = "PROCESSING"
	FileStateActive     = "ACTIVE"
	FileStateFailed     = "FAILED"
)

// File is a resource uploaded to the service for later reference, e.g. a
// source video awaiting analysis. Files expire server-side after a retention
// window (~48h); expiry is not tracked locally.
type File struct {
	Name       string  `json:"name,omitempty"`
	URI        string  `json:"uri,omitempty"`
	MimeType   string  `json:"mimeType,omitempty"`
	SizeBytes  string  `json:"sizeBytes,omitempty"`
	State      string  `json:"state,omitempty"`
	CreateTime string  `json:"createTime,omitempty"`
	Error      *Status `json:"error,omitempty"`
}

type fileEnvelope struct {
	File *File `json:"file"`
}

// Operation is a long-running job handle. Done reports whether the operation
// reached a terminal state; exactly one of Response or Error is then set.
type Operation struct {
	Name     string          `json:"name,omitempty"`
	Done     bool            `json:"done,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    *Status         `json:"error,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// Status mirrors the google.rpc.Status error payload carried by failed
// operations and error responses.
type Status struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Image is an inline or referenced image attached to a request.
type Image struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	GCSURI             string `json:"gcsUri,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

// Video references a previously generated video, used by extension requests.
type Video struct {
	URI                string `json:"uri,omitempty"`
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

// ReferenceImage is an asset or style guide image for video generation.
type ReferenceImage struct {
	Image         *Image `json:"image,omitempty"`
	ReferenceType string `json:"referenceType,omitempty"`
}

// VideoInstance is a single video generation request variant. Which fields
// are set determines the mode: text-only, image-to-video, first/last frame
// interpolation, guided by reference images, or extension of a prior result.
type VideoInstance struct {
	Prompt          string            `json:"prompt,omitempty"`
	Image           *Image            `json:"image,omitempty"`
	LastFrame       *Image            `json:"lastFrame,omitempty"`
	Video           *Video            `json:"video,omitempty"`
	ReferenceImages []*ReferenceImage `json:"referenceImages,omitempty"`
}

// VideoParameters tunes a video generation request.
type VideoParameters struct {
	AspectRatio      string `json:"aspectRatio,omitempty"`
	Resolution       string `json:"resolution,omitempty"`
	DurationSeconds  int    `json:"durationSeconds,omitempty"`
	NegativePrompt   string `json:"negativePrompt,omitempty"`
	PersonGeneration string `json:"personGeneration,omitempty"`
	SampleCount      int    `json:"sampleCount,omitempty"`
}

// GenerateVideosRequest is the payload for models/{model}:predictLongRunning.
type GenerateVideosRequest struct {
	Instances  []VideoInstance  `json:"instances"`
	Parameters *VideoParameters `json:"parameters,omitempty"`
}

// GenerateVideosResponse is the success payload of a finished video
// operation.
type GenerateVideosResponse struct {
	GenerateVideoResponse *VideoResults `json:"generateVideoResponse,omitempty"`
}

// VideoResults lists the generated samples, or the reasons they were
// filtered by the responsible-AI layer.
type VideoResults struct {
	GeneratedSamples        []GeneratedVideo `json:"generatedSamples,omitempty"`
	RaiMediaFilteredCount   int              `json:"raiMediaFilteredCount,omitempty"`
	RaiMediaFilteredReasons []string         `json:"raiMediaFilteredReasons,omitempty"`
}

// GeneratedVideo is one produced video sample.
type GeneratedVideo struct {
	Video *Video `json:"video,omitempty"`
}

// ImageInstance is a single prompt for synchronous image generation.
type ImageInstance struct {
	Prompt string `json:"prompt"`
}

// ImageParameters tunes a models/{model}:predict image request.
type ImageParameters struct {
	SampleCount      int    `json:"sampleCount,omitempty"`
	AspectRatio      string `json:"aspectRatio,omitempty"`
	PersonGeneration string `json:"personGeneration,omitempty"`
	ImageSize        string `json:"imageSize,omitempty"`
}

// PredictRequest is the payload for models/{model}:predict.
type PredictRequest struct {
	Instances  []ImageInstance  `json:"instances"`
	Parameters *ImageParameters `json:"parameters,omitempty"`
}

// PredictResponse carries the immediate image generation results.
type PredictResponse struct {
	Predictions []Prediction `json:"predictions,omitempty"`
}

// Prediction is one generated image candidate.
type Prediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
	RaiFilteredReason  string `json:"raiFilteredReason,omitempty"`
}

// Content is a turn of conversation content for generateContent calls.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is one piece of content: text, inline bytes, or a file reference
// optionally scoped to a clip of a video.
type Part struct {
	Text          string         `json:"text,omitempty"`
	InlineData    *Blob          `json:"inlineData,omitempty"`
	FileData      *FileData      `json:"fileData,omitempty"`
	VideoMetadata *VideoMetadata `json:"videoMetadata,omitempty"`
}

// Blob is base64-encoded inline media.
type Blob struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// FileData references an uploaded file by URI.
type FileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri,omitempty"`
}

// VideoMetadata restricts analysis to a clip. Offsets use the service's
// duration syntax, e.g. "90s".
type VideoMetadata struct {
	StartOffset string `json:"startOffset,omitempty"`
	EndOffset   string `json:"endOffset,omitempty"`
}

// GenerateContentRequest is the payload for models/{model}:generateContent.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// GenerateContentResponse carries the immediate analysis result.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Text concatenates the text parts of the first candidate.
func (r *GenerateContentResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, part := range r.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out
}
