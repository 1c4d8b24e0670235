// Package analyze implements the language-model analysis stage that turns a
// spoken transcript into coaching output: a strict grammar correction pass,
// two tone rewrites, and a follow-up chat coach.
//
// The [Analyzer] sends the transcript text to an [llm.Provider] with a
// per-mode system prompt and expects a structured JSON reply. Unlike
// transient transport failures, a reply that cannot be parsed as the expected
// JSON shape is a discrete, reportable condition: Analyze returns
// [ErrMalformedResult] and no partial result, so the caller can surface a bad
// gateway instead of silently showing the transcript as "already perfect".
//
// After parsing, the grammar result is rendered into highlight runs via the
// reconcile package, for both the original transcript and the corrected text.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ananyasolanki1/talklift/internal/observe"
	"github.com/ananyasolanki1/talklift/internal/reconcile"
	"github.com/ananyasolanki1/talklift/pkg/provider/llm"
)

// ErrMalformedResult reports that the model's reply was not the expected
// JSON shape. The reply is discarded whole; callers must not fall back to a
// partial interpretation.
var ErrMalformedResult = errors.New("analyze: malformed model result")

// Mode selects which analysis pass to run.
type Mode string

// Analysis modes.
const (
	ModeGrammar      Mode = "grammar"
	ModeProfessional Mode = "professional"
	ModeCasual       Mode = "casual"
)

// IsValid reports whether m is a known analysis mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeGrammar, ModeProfessional, ModeCasual:
		return true
	}
	return false
}

// tipLimit caps how many tips a tone result keeps. The prompt asks for
// exactly three; extra entries from a chatty model are dropped, not an error.
const tipLimit = 3

const defaultTemperature = 0.2

// GrammarResult is the outcome of a grammar analysis pass.
type GrammarResult struct {
	// CorrectedText is the transcript with only essential grammatical
	// corrections applied.
	CorrectedText string `json:"correctedText"`

	// Mistakes is the normalized list of corrections, in model order.
	Mistakes []reconcile.Edit `json:"mistakes"`

	// OriginalRuns is the original transcript segmented into highlight runs,
	// tagging each mistake's original snippet.
	OriginalRuns []reconcile.Run `json:"originalRuns"`

	// CorrectedRuns is the corrected text segmented into highlight runs,
	// tagging each mistake's correction snippet.
	CorrectedRuns []reconcile.Run `json:"correctedRuns"`
}

// ToneResult is the outcome of a professional or casual rewrite pass.
type ToneResult struct {
	// ImprovedText is the rewritten version of the transcript.
	ImprovedText string `json:"improvedText"`

	// Tips holds at most three short, example-citing tips.
	Tips []string `json:"tips"`
}

// Result is the union of the per-mode outcomes; exactly one field is non-nil,
// matching the requested mode.
type Result struct {
	Grammar *GrammarResult `json:"grammar,omitempty"`
	Tone    *ToneResult    `json:"tone,omitempty"`
}

// grammarResponse is the expected JSON structure of a grammar-mode reply.
type grammarResponse struct {
	CorrectedText string `json:"correctedText"`
	Mistakes      []struct {
		Original    string `json:"original"`
		Correction  string `json:"correction"`
		Explanation string `json:"explanation"`
	} `json:"mistakes"`
}

// toneResponse is the expected JSON structure of a tone-mode reply.
type toneResponse struct {
	ImprovedText string   `json:"improvedText"`
	Tips         []string `json:"tips"`
}

// Option is a functional option for configuring an [Analyzer].
type Option func(*Analyzer)

// WithTemperature sets the LLM sampling temperature. Lower values produce
// more deterministic output. Default: 0.2.
func WithTemperature(temp float64) Option {
	return func(a *Analyzer) {
		a.temperature = temp
	}
}

// WithLogger sets the logger used for hallucination diagnostics.
// Default: slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(a *Analyzer) {
		a.log = log
	}
}

// WithMetrics sets the metrics instance used to count unmatched mistake
// snippets. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// Analyzer runs analysis passes over transcript text using an
// [llm.Provider]. It is safe for concurrent use.
//
// Model selection follows the one-provider-per-model pattern: to use a
// specific model, construct the [llm.Provider] with that model configured
// rather than overriding per-request.
type Analyzer struct {
	llm         llm.Provider
	temperature float64
	log         *slog.Logger
	metrics     *observe.Metrics
}

// New returns a new [Analyzer] backed by the given [llm.Provider].
func New(provider llm.Provider, opts ...Option) *Analyzer {
	a := &Analyzer{
		llm:         provider,
		temperature: defaultTemperature,
		log:         slog.Default(),
		metrics:     observe.DefaultMetrics(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze runs the pass selected by mode over text.
//
// Transport and context errors are returned wrapped. A reply that is not the
// expected JSON shape returns an error wrapping [ErrMalformedResult] with no
// partial result.
func (a *Analyzer) Analyze(ctx context.Context, text string, mode Mode) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("analyze: text must not be empty")
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("analyze: unknown mode %q", mode)
	}

	req := llm.CompletionRequest{
		SystemPrompt: systemPrompt(mode),
		Temperature:  a.temperature,
		JSONOnly:     true,
		Messages: []llm.Message{
			{Role: "user", Content: userPrompt(mode, text)},
		},
	}

	resp, err := a.llm.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analyze: complete: %w", err)
	}

	if mode == ModeGrammar {
		gr, err := a.parseGrammar(ctx, resp.Content, text)
		if err != nil {
			return nil, err
		}
		return &Result{Grammar: gr}, nil
	}

	tr, err := parseTone(resp.Content)
	if err != nil {
		return nil, err
	}
	return &Result{Tone: tr}, nil
}

// parseGrammar decodes a grammar-mode reply, normalizes the mistakes, and
// renders highlight runs for both the original and the corrected text.
func (a *Analyzer) parseGrammar(ctx context.Context, content, originalText string) (*GrammarResult, error) {
	cleaned := stripMarkdown(content)

	var r grammarResponse
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, fmt.Errorf("%w: grammar reply: %v", ErrMalformedResult, err)
	}
	if r.CorrectedText == "" {
		return nil, fmt.Errorf("%w: grammar reply missing correctedText", ErrMalformedResult)
	}

	edits := make([]reconcile.Edit, 0, len(r.Mistakes))
	for _, m := range r.Mistakes {
		edits = append(edits, reconcile.Edit{
			Original:    m.Original,
			Correction:  m.Correction,
			Explanation: m.Explanation,
		})
	}
	edits = reconcile.Normalize(edits)

	origNeedles := reconcile.OriginalNeedles(edits)
	corrNeedles := reconcile.CorrectionNeedles(edits)
	origRuns := reconcile.Match(originalText, origNeedles)
	corrRuns := reconcile.Match(r.CorrectedText, corrNeedles)

	// A snippet the model reported but that never occurs in the text is a
	// hallucination: it renders as plain text, and we log the closest real
	// span for diagnostics.
	for _, n := range reconcile.Unmatched(origNeedles, origRuns) {
		a.metrics.UnmatchedSnippets.Add(ctx, 1)
		nearest, score := reconcile.Nearest(originalText, n.Text)
		a.log.Debug("analyze: unmatched mistake snippet",
			"snippet", n.Text,
			"nearest", nearest,
			"similarity", score,
		)
	}

	return &GrammarResult{
		CorrectedText: r.CorrectedText,
		Mistakes:      edits,
		OriginalRuns:  origRuns,
		CorrectedRuns: corrRuns,
	}, nil
}

// parseTone decodes a professional- or casual-mode reply.
func parseTone(content string) (*ToneResult, error) {
	cleaned := stripMarkdown(content)

	var r toneResponse
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, fmt.Errorf("%w: tone reply: %v", ErrMalformedResult, err)
	}
	if r.ImprovedText == "" {
		return nil, fmt.Errorf("%w: tone reply missing improvedText", ErrMalformedResult)
	}

	tips := r.Tips
	if len(tips) > tipLimit {
		tips = tips[:tipLimit]
	}

	return &ToneResult{ImprovedText: r.ImprovedText, Tips: tips}, nil
}

// stripMarkdown removes optional markdown code fences (```json ... ```) that
// some models prepend and append to JSON output.
func stripMarkdown(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
			break
		}
	}
	if before, ok := strings.CutSuffix(s, "```"); ok {
		s = before
	}
	return strings.TrimSpace(s)
}
