// Package mock provides a test double for the stt.Transcriber interface.
//
// Use Transcriber to feed controlled transcripts and inspect submitted clips
// without a live STT backend.
//
// Example:
//
//	tr := &mock.Transcriber{
//	    Result: &stt.Transcription{Text: "I goed to the store"},
//	}
//	got, err := tr.Transcribe(ctx, req)
package mock

import (
	"context"
	"io"
	"sync"

	"github.com/ananyasolanki1/talklift/pkg/provider/stt"
)

// Call records a single invocation of Transcribe.
type Call struct {
	// Req is the request passed to Transcribe, with Audio already consumed.
	Req stt.Request
	// Audio is the full audio payload read from the request.
	Audio []byte
}

// Transcriber is a mock implementation of stt.Transcriber.
// Zero values cause Transcribe to return a zero Transcription and nil error.
type Transcriber struct {
	mu sync.Mutex

	// Result is returned by Transcribe. May be nil (returns an empty
	// Transcription).
	Result *stt.Transcription

	// Err, if non-nil, is returned as the error from Transcribe.
	Err error

	// Calls records every invocation of Transcribe in order.
	Calls []Call
}

// Transcribe records the call, drains the audio reader, and returns the
// configured Result and Err.
func (t *Transcriber) Transcribe(_ context.Context, req stt.Request) (*stt.Transcription, error) {
	var audio []byte
	if req.Audio != nil {
		audio, _ = io.ReadAll(req.Audio)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls = append(t.Calls, Call{Req: req, Audio: audio})

	if t.Err != nil {
		return nil, t.Err
	}
	if t.Result == nil {
		return &stt.Transcription{}, nil
	}
	res := *t.Result
	return &res, nil
}

// Reset clears all recorded calls. Thread-safe.
func (t *Transcriber) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls = nil
}

// Ensure Transcriber implements stt.Transcriber at compile time.
var _ stt.Transcriber = (*Transcriber)(nil)
