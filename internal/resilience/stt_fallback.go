package resilience

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ananyasolanki1/talklift/pkg/provider/stt"
)

// STTFallback implements [stt.Transcriber] with automatic failover across
// multiple STT backends.
//
// Because [stt.Request.Audio] is consumed exactly once, the clip is buffered
// in memory so each attempt gets a fresh reader. Recorded practice clips are
// short, so the extra copy is bounded in practice.
type STTFallback struct {
	group *FallbackGroup[stt.Transcriber]
}

// Compile-time interface assertion.
var _ stt.Transcriber = (*STTFallback)(nil)

// NewSTTFallback creates an [STTFallback] with primary as the preferred backend.
func NewSTTFallback(primary stt.Transcriber, primaryName string) *STTFallback {
	return &STTFallback{
		group: NewFallbackGroup(primary, primaryName, "stt"),
	}
}

// AddFallback registers an additional STT transcriber as a fallback.
func (f *STTFallback) AddFallback(name string, t stt.Transcriber) {
	f.group.AddFallback(name, t)
}

// Transcribe sends the clip to each transcriber in order and returns the
// first successful result.
func (f *STTFallback) Transcribe(ctx context.Context, req stt.Request) (*stt.Transcription, error) {
	var audio []byte
	if req.Audio != nil {
		var err error
		audio, err = io.ReadAll(req.Audio)
		if err != nil {
			return nil, fmt.Errorf("resilience: read audio: %w", err)
		}
	}

	return ExecuteWithResult(ctx, f.group, func(t stt.Transcriber) (*stt.Transcription, error) {
		attempt := req
		attempt.Audio = bytes.NewReader(audio)
		return t.Transcribe(ctx, attempt)
	})
}
