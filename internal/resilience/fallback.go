// Package resilience provides ordered provider fallback for the upstream
// model backends. A request is tried against each registered provider in
// order; the first success wins. There are no retries against the same
// provider and no circuit state — every request walks the list fresh, which
// keeps failure behavior predictable for a request/response service.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ananyasolanki1/talklift/internal/observe"
)

// ErrAllFailed is returned when every entry in a [FallbackGroup] fails.
var ErrAllFailed = errors.New("all providers failed")

// fallbackEntry pairs a provider value with its registered name.
type fallbackEntry[T any] struct {
	name  string
	value T
}

// FallbackGroup wraps a primary and zero or more fallback instances of the
// same provider type. When the primary fails, the next fallback is tried in
// registration order. Every attempt is counted in the provider request
// metrics, attributed by provider name, kind, and outcome.
//
// FallbackGroup is safe for concurrent use once assembled; AddFallback must
// not race with Execute.
type FallbackGroup[T any] struct {
	entries []fallbackEntry[T]
	kind    string
	metrics *observe.Metrics
}

// NewFallbackGroup creates a [FallbackGroup] with primary as the first entry.
// kind labels the provider category ("llm", "stt") in recorded metrics.
// Additional fallbacks are registered via [FallbackGroup.AddFallback].
func NewFallbackGroup[T any](primary T, primaryName, kind string) *FallbackGroup[T] {
	return &FallbackGroup[T]{
		entries: []fallbackEntry[T]{{name: primaryName, value: primary}},
		kind:    kind,
		metrics: observe.DefaultMetrics(),
	}
}

// AddFallback appends a fallback provider. Fallbacks are tried in the order
// they are added, after the primary.
func (fg *FallbackGroup[T]) AddFallback(name string, fallback T) {
	fg.entries = append(fg.entries, fallbackEntry[T]{name: name, value: fallback})
}

// Execute tries fn against each entry in order until one succeeds. Returns
// [ErrAllFailed] wrapped with the last error if every entry fails.
func (fg *FallbackGroup[T]) Execute(ctx context.Context, fn func(T) error) error {
	var lastErr error
	for i := range fg.entries {
		entry := &fg.entries[i]
		err := fn(entry.value)
		if err == nil {
			fg.metrics.RecordProviderRequest(ctx, entry.name, fg.kind, "ok")
			return nil
		}
		lastErr = err
		fg.metrics.RecordProviderRequest(ctx, entry.name, fg.kind, "error")
		fg.metrics.RecordProviderError(ctx, entry.name, fg.kind)
		slog.Warn("provider failed, trying next",
			"provider", entry.name, "error", err)
	}
	return fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}

// ExecuteWithResult tries fn against each entry in the group until one
// succeeds, returning both the result value and error. This is a
// package-level function because Go does not support method-level type
// parameters.
func ExecuteWithResult[T any, R any](ctx context.Context, fg *FallbackGroup[T], fn func(T) (R, error)) (R, error) {
	var (
		lastErr error
		zero    R
	)
	for i := range fg.entries {
		entry := &fg.entries[i]
		result, err := fn(entry.value)
		if err == nil {
			fg.metrics.RecordProviderRequest(ctx, entry.name, fg.kind, "ok")
			return result, nil
		}
		lastErr = err
		fg.metrics.RecordProviderRequest(ctx, entry.name, fg.kind, "error")
		fg.metrics.RecordProviderError(ctx, entry.name, fg.kind)
		slog.Warn("provider failed, trying next",
			"provider", entry.name, "error", err)
	}
	return zero, fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}
