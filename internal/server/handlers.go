package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/ananyasolanki1/talklift/internal/analyze"
	"github.com/ananyasolanki1/talklift/internal/export"
	"github.com/ananyasolanki1/talklift/internal/history"
	"github.com/ananyasolanki1/talklift/internal/observe"
	"github.com/ananyasolanki1/talklift/internal/report"
	"github.com/ananyasolanki1/talklift/pkg/provider/stt"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}

// ── Transcription ─────────────────────────────────────────────────────────────

type transcribeResponse struct {
	Text            string  `json:"text"`
	Language        string  `json:"language,omitempty"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil {
		writeError(w, http.StatusServiceUnavailable, "no speech-to-text provider configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"audio\" is required")
		return
	}
	defer file.Close()

	start := time.Now()
	tr, err := s.transcriber.Transcribe(r.Context(), stt.Request{
		Audio:    file,
		FileName: header.Filename,
		Language: r.FormValue("language"),
	})
	s.metrics.STTDuration.Record(r.Context(), time.Since(start).Seconds())
	if err != nil {
		s.log.Error("transcription failed", "file", header.Filename, "err", err)
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}

	writeJSON(w, http.StatusOK, transcribeResponse{
		Text:            tr.Text,
		Language:        tr.Language,
		DurationSeconds: tr.DurationSeconds,
	})
}

// ── Analysis ──────────────────────────────────────────────────────────────────

type analyzeRequest struct {
	Text string       `json:"text"`
	Mode analyze.Mode `json:"mode"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if !req.Mode.IsValid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", req.Mode))
		return
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(r.Context(), req.Text, req.Mode)
	s.metrics.LLMDuration.Record(r.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(observe.Attr("operation", "analyze")))
	if err != nil {
		if errors.Is(err, analyze.ErrMalformedResult) {
			s.log.Warn("model returned malformed analysis", "mode", req.Mode, "err", err)
			s.metrics.RecordAnalysis(r.Context(), string(req.Mode), "malformed")
			writeError(w, http.StatusBadGateway, "model returned an unusable result")
			return
		}
		s.log.Error("analysis failed", "mode", req.Mode, "err", err)
		s.metrics.RecordAnalysis(r.Context(), string(req.Mode), "error")
		writeError(w, http.StatusBadGateway, "failed to analyze text")
		return
	}

	s.metrics.RecordAnalysis(r.Context(), string(req.Mode), "ok")
	writeJSON(w, http.StatusOK, result)
}

// ── Chat ──────────────────────────────────────────────────────────────────────

type chatRequest struct {
	Context  string                `json:"context"`
	Messages []analyze.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Context) == "" {
		writeError(w, http.StatusBadRequest, "context is required")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	for i, m := range req.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("messages[%d]: unknown role %q", i, m.Role))
			return
		}
	}

	start := time.Now()
	reply, err := s.analyzer.Chat(r.Context(), req.Context, req.Messages)
	s.metrics.LLMDuration.Record(r.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(observe.Attr("operation", "chat")))
	if err != nil {
		s.log.Error("chat failed", "err", err)
		writeError(w, http.StatusBadGateway, "failed to get a reply")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// ── History ───────────────────────────────────────────────────────────────────

// historyRecord is the API wire shape of a session record. Field naming
// matches the local store's camelCase convention.
type historyRecord struct {
	ID                  string             `json:"id"`
	Provenance          history.Provenance `json:"provenance"`
	Date                time.Time          `json:"date"`
	OriginalText        string             `json:"originalText"`
	GrammarVersion      string             `json:"grammarVersion,omitempty"`
	ProfessionalVersion string             `json:"professionalVersion,omitempty"`
	CasualVersion       string             `json:"casualVersion,omitempty"`
}

func toWire(r history.Record) historyRecord {
	return historyRecord{
		ID:                  r.ID,
		Provenance:          r.Origin(),
		Date:                r.CreatedAt,
		OriginalText:        r.OriginalText,
		GrammarVersion:      r.GrammarVersion,
		ProfessionalVersion: r.ProfessionalVersion,
		CasualVersion:       r.CasualVersion,
	}
}

type historyListResponse struct {
	Records []historyRecord `json:"records"`
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.merger.Load(r.Context(), s.auth(r))
	if err != nil {
		s.log.Error("history load failed", "err", err)
		s.metrics.RecordHistoryOperation(r.Context(), "load", "merged", "error")
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	s.metrics.RecordHistoryOperation(r.Context(), "load", "merged", "ok")

	out := historyListResponse{Records: make([]historyRecord, 0, len(recs))}
	for _, rec := range recs {
		out.Records = append(out.Records, toWire(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

type historySaveRequest struct {
	OriginalText        string `json:"originalText"`
	GrammarVersion      string `json:"grammarVersion"`
	ProfessionalVersion string `json:"professionalVersion"`
	CasualVersion       string `json:"casualVersion"`

	// Store selects the target store: "" or "remote" saves for the
	// authenticated user, "local" targets the fallback store directly.
	Store string `json:"store"`
}

func (s *Server) handleHistorySave(w http.ResponseWriter, r *http.Request) {
	var req historySaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Store != "" && req.Store != "remote" && req.Store != "local" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown store %q", req.Store))
		return
	}

	rec := history.Record{
		OriginalText:        req.OriginalText,
		GrammarVersion:      req.GrammarVersion,
		ProfessionalVersion: req.ProfessionalVersion,
		CasualVersion:       req.CasualVersion,
	}
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "originalText is required")
		return
	}

	var (
		saved history.Record
		err   error
		store = "remote"
	)
	if req.Store == "local" {
		store = "local"
		saved, err = s.merger.SaveLocal(r.Context(), rec)
	} else {
		saved, err = s.merger.Save(r.Context(), s.auth(r), rec)
	}
	if err != nil {
		if errors.Is(err, history.ErrAuthRequired) {
			writeError(w, http.StatusUnauthorized, "sign in to save progress")
			return
		}
		s.log.Error("history save failed", "store", store, "err", err)
		s.metrics.RecordHistoryOperation(r.Context(), "save", store, "error")
		writeError(w, http.StatusInternalServerError, "failed to save record")
		return
	}
	s.metrics.RecordHistoryOperation(r.Context(), "save", store, "ok")

	writeJSON(w, http.StatusCreated, toWire(saved))
}

func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "record id is required")
		return
	}

	if err := s.merger.Delete(r.Context(), id); err != nil {
		s.log.Error("history delete failed", "id", id, "err", err)
		s.metrics.RecordHistoryOperation(r.Context(), "delete", "merged", "error")
		writeError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}
	s.metrics.RecordHistoryOperation(r.Context(), "delete", "merged", "ok")

	w.WriteHeader(http.StatusNoContent)
}

// ── Report export ─────────────────────────────────────────────────────────────

func (s *Server) handleHistoryReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "md"
	}
	exp, err := export.New(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	recs, err := s.merger.Load(r.Context(), s.auth(r))
	if err != nil {
		s.log.Error("history load failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	var rec *history.Record
	for i := range recs {
		if recs[i].ID == id {
			rec = &recs[i]
			break
		}
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}

	var grammar *report.GrammarSection
	if rec.GrammarVersion != "" {
		grammar = &report.GrammarSection{CorrectedText: rec.GrammarVersion}
	}
	var professional, casual *string
	if rec.ProfessionalVersion != "" {
		professional = &rec.ProfessionalVersion
	}
	if rec.CasualVersion != "" {
		casual = &rec.CasualVersion
	}

	date := rec.CreatedAt
	if date.IsZero() {
		date = s.now()
	}
	doc := report.Assemble(rec.OriginalText, grammar, professional, casual, date)

	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "talklift-report-"+id+"."+exp.Extension()))
	if err := exp.Export(doc, w); err != nil {
		// Headers are already written; all we can do is log.
		s.log.Error("report export failed", "id", id, "format", format, "err", err)
	}
}

// ── JSON helpers ──────────────────────────────────────────────────────────────

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
