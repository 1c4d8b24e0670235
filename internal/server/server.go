// Package server exposes the TalkLift HTTP API.
//
// The API mirrors the coaching flow: upload a clip for transcription, run an
// analysis pass over the transcript, chat about the result, and manage the
// session history. Handlers are registered on a standard [http.ServeMux]
// using method-qualified patterns; observability middleware and the health
// endpoints are composed by the caller (see cmd/talklift).
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ananyasolanki1/talklift/internal/analyze"
	"github.com/ananyasolanki1/talklift/internal/history"
	"github.com/ananyasolanki1/talklift/internal/observe"
	"github.com/ananyasolanki1/talklift/pkg/provider/stt"
)

// userIDHeader carries the authenticated user id. The gateway in front of
// this service validates the session and sets the header; an absent header
// means an anonymous caller.
const userIDHeader = "X-User-ID"

// defaultMaxUploadBytes caps the size of a transcription upload.
const defaultMaxUploadBytes = 25 << 20

// Server holds the wired subsystems behind the HTTP API. Construct with
// [New]; the zero value is not usable.
type Server struct {
	analyzer    *analyze.Analyzer
	transcriber stt.Transcriber // nil when no STT provider is configured
	merger      *history.Merger

	metrics   *observe.Metrics
	log       *slog.Logger
	now       func() time.Time
	maxUpload int64
}

// Option configures a [Server].
type Option func(*Server)

// WithMetrics sets the metrics sink. Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request logger. Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMaxUploadBytes overrides the transcription upload size limit.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) { s.maxUpload = n }
}

// WithClock overrides the clock used for report dates. For tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server over the given subsystems. transcriber may be nil, in
// which case POST /api/transcribe answers 503.
func New(analyzer *analyze.Analyzer, transcriber stt.Transcriber, merger *history.Merger, opts ...Option) *Server {
	s := &Server{
		analyzer:    analyzer,
		transcriber: transcriber,
		merger:      merger,
		log:         slog.Default(),
		now:         time.Now,
		maxUpload:   defaultMaxUploadBytes,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// Register adds all /api routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/transcribe", s.handleTranscribe)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/history", s.handleHistoryList)
	mux.HandleFunc("POST /api/history", s.handleHistorySave)
	mux.HandleFunc("DELETE /api/history/{id}", s.handleHistoryDelete)
	mux.HandleFunc("GET /api/history/{id}/report", s.handleHistoryReport)
}

// auth derives the caller's auth context from the request headers.
func (s *Server) auth(r *http.Request) history.AuthContext {
	return history.AuthContext{UserID: r.Header.Get(userIDHeader)}
}
