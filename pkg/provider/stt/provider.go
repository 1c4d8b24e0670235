// Package stt defines the Transcriber interface for Speech-to-Text backends.
//
// An STT provider wraps a transcription service (e.g., the OpenAI audio API or
// a local Whisper server) and exposes a uniform one-shot interface: a recorded
// audio clip goes in, its transcript text comes out. Recording happens on the
// client; the backend never sees a live stream.
//
// Implementations must be safe for concurrent use.
package stt

import (
	"context"
	"io"
)

// Request carries one recorded audio clip for transcription.
type Request struct {
	// Audio is the encoded audio payload. The reader is consumed exactly once.
	Audio io.Reader

	// FileName hints the container format to the backend (e.g., "clip.webm",
	// "clip.wav"). Providers that detect the format from content may ignore it,
	// but it must carry a recognizable extension for providers that do not.
	FileName string

	// Language is the optional BCP-47 language tag of the speech (e.g., "en").
	// An empty string lets the provider auto-detect the language, if supported.
	Language string

	// Prompt is optional context text that biases recognition toward expected
	// vocabulary. Providers without prompt support ignore it.
	Prompt string
}

// Transcription is the result of a one-shot transcription.
type Transcription struct {
	// Text is the full recognized transcript.
	Text string

	// Language is the detected or requested language tag, when the provider
	// reports one.
	Language string

	// DurationSeconds is the length of the recognized audio, when the provider
	// reports it. Zero means unknown.
	DurationSeconds float64
}

// Transcriber is the abstraction over any STT backend.
//
// Implementations must be safe for concurrent use from multiple goroutines and
// must honor ctx cancellation.
type Transcriber interface {
	// Transcribe sends the clip in req to the backend and returns the
	// recognized transcript. Returns an error if the request fails, the audio
	// is unreadable, or ctx is cancelled first.
	Transcribe(ctx context.Context, req Request) (*Transcription, error)
}
