package openai

import (
	"context"
	"testing"
	"time"

	"github.com/ananyasolanki1/talklift/pkg/provider/stt"
)

func TestNew_MissingAPIKey(t *testing.T) {
	_, err := New("", "whisper-1")
	if err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestNew_DefaultModel(t *testing.T) {
	tr, err := New("sk-test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.model != DefaultModel {
		t.Errorf("model = %q, want %q", tr.model, DefaultModel)
	}
}

func TestNew_Options(t *testing.T) {
	_, err := New("sk-test", "whisper-1",
		WithBaseURL("http://localhost:8080/v1"),
		WithTimeout(30*time.Second),
	)
	if err != nil {
		t.Fatalf("unexpected error with valid options: %v", err)
	}
}

func TestTranscribe_NilAudio(t *testing.T) {
	tr, err := New("sk-test", "whisper-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tr.Transcribe(context.Background(), stt.Request{FileName: "clip.webm"}); err == nil {
		t.Fatal("expected error for nil audio")
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"clip.webm", "audio/webm"},
		{"CLIP.WAV", "audio/wav"},
		{"voice.mp3", "audio/mpeg"},
		{"memo.m4a", "audio/mp4"},
		{"note.ogg", "audio/ogg"},
		{"mystery.bin", "application/octet-stream"},
		{"", "application/octet-stream"},
	}
	for _, tc := range tests {
		if got := contentTypeFor(tc.name); got != tc.want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
