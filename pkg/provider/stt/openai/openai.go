// Package openai provides an STT transcriber backed by the OpenAI audio API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ananyasolanki1/talklift/pkg/provider/stt"
)

// Compile-time interface check.
var _ stt.Transcriber = (*Transcriber)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "whisper-1"

// Transcriber implements stt.Transcriber using the OpenAI audio
// transcriptions endpoint.
type Transcriber struct {
	client oai.Client
	model  string
}

// config holds optional configuration for the transcriber.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Transcriber.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL. Useful for
// OpenAI-compatible local servers.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New constructs a new OpenAI Transcriber. An empty model selects
// [DefaultModel].
func New(apiKey string, model string, opts ...Option) (*Transcriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai stt: apiKey must not be empty")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &Transcriber{client: oai.NewClient(reqOpts...), model: model}, nil
}

// Transcribe implements stt.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, req stt.Request) (*stt.Transcription, error) {
	if req.Audio == nil {
		return nil, fmt.Errorf("openai stt: audio must not be nil")
	}

	params := oai.AudioTranscriptionNewParams{
		Model: oai.AudioModel(t.model),
		File:  oai.File(req.Audio, req.FileName, contentTypeFor(req.FileName)),
	}
	if req.Language != "" {
		params.Language = oai.String(req.Language)
	}
	if req.Prompt != "" {
		params.Prompt = oai.String(req.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai stt: transcribe: %w", err)
	}

	return &stt.Transcription{
		Text:     resp.Text,
		Language: req.Language,
	}, nil
}

// contentTypeFor maps a file name extension to a MIME type the multipart
// upload can declare. Unknown extensions fall back to octet-stream; the API
// sniffs the container either way.
func contentTypeFor(name string) string {
	switch ext := strings.ToLower(name); {
	case strings.HasSuffix(ext, ".webm"):
		return "audio/webm"
	case strings.HasSuffix(ext, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(ext, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(ext, ".m4a"):
		return "audio/mp4"
	case strings.HasSuffix(ext, ".ogg"):
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
