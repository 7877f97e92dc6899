package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAISynthesize(t *testing.T) {
	audioBytes := []byte("fake-mp3-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %q", got)
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("Decode request: %v", err)
		}
		if payload["model"] != "tts-1" {
			t.Errorf("Expected tts-1, got %v", payload["model"])
		}
		if payload["voice"] != "onyx" {
			t.Errorf("Expected onyx, got %v", payload["voice"])
		}
		if payload["input"] != "Welcome aboard" {
			t.Errorf("Expected input text, got %v", payload["input"])
		}

		w.Write(audioBytes)
	}))
	defer server.Close()

	provider, err := NewOpenAI(
		WithBaseURL(server.URL),
		WithAPIKey("test-key"),
	)
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}
	defer provider.Close()

	result, err := provider.Synthesize(context.Background(), "Welcome aboard")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(result.Audio) != string(audioBytes) {
		t.Errorf("Audio bytes mismatch: %q", result.Audio)
	}
	if result.Format != FormatMP3 {
		t.Errorf("Expected mp3 format, got %s", result.Format)
	}
	if result.Voice != "onyx" {
		t.Errorf("Expected onyx, got %s", result.Voice)
	}
}

func TestOpenAISynthesizeEmptyText(t *testing.T) {
	provider, err := NewOpenAI(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}
	defer provider.Close()

	_, err = provider.Synthesize(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("Expected ErrEmptyText, got %v", err)
	}
}

func TestOpenAIRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAI(); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestOpenAISynthesizeRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	provider, _ := NewOpenAI(
		WithBaseURL(server.URL),
		WithAPIKey("test-key"),
		WithRetry(2, 0),
	)
	defer provider.Close()

	result, err := provider.Synthesize(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Synthesize failed after retry: %v", err)
	}
	if string(result.Audio) != "audio" {
		t.Errorf("Unexpected audio: %q", result.Audio)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestOpenAISynthesizeClientErrorNoRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	provider, _ := NewOpenAI(
		WithBaseURL(server.URL),
		WithAPIKey("test-key"),
		WithRetry(3, 0),
	)
	defer provider.Close()

	_, err := provider.Synthesize(context.Background(), "Hello")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("400 should not retry, got %d attempts", attempts)
	}
}

func TestMockRecordsTexts(t *testing.T) {
	mock := NewMock()

	if _, err := mock.Synthesize(context.Background(), "first"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if _, err := mock.Synthesize(context.Background(), "second"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	texts := mock.Texts()
	if len(texts) != 2 || texts[0] != "first" || texts[1] != "second" {
		t.Errorf("Unexpected recorded texts: %v", texts)
	}
}
