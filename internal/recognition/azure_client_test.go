package recognition

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linguaai/translation-gateway/internal/config"
	"github.com/linguaai/translation-gateway/internal/pipeline"
)

func newTestClient(t *testing.T, url string) *AzureClient {
	t.Helper()
	client := NewAzureClient(&config.Config{
		SpeechKey:           "test-key",
		SpeechRegion:        "eastus",
		RecognitionLanguage: "en-US",
		RequestTimeout:      5,
	})
	client.endpoint = url
	return client
}

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("language"); got != "en-US" {
			t.Errorf("Expected default language 'en-US', got '%s'", got)
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			t.Errorf("Expected subscription key header, got '%s'", r.Header.Get("Ocp-Apim-Subscription-Key"))
		}
		json.NewEncoder(w).Encode(map[string]string{
			"RecognitionStatus": "Success",
			"DisplayText":       "Good morning.",
		})
	}))
	defer server.Close()

	result, err := newTestClient(t, server.URL).Transcribe(context.Background(), []byte{0x01, 0x02}, "")
	if err != nil {
		t.Fatalf("Transcribe() failed: %v", err)
	}
	if !result.Recognized {
		t.Error("Expected recognized result")
	}
	if result.Text != "Good morning." {
		t.Errorf("Expected 'Good morning.', got '%s'", result.Text)
	}
}

func TestTranscribe_LanguageParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("language"); got != "fr-FR" {
			t.Errorf("Expected language 'fr-FR', got '%s'", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"RecognitionStatus": "Success", "DisplayText": "Bonjour."})
	}))
	defer server.Close()

	if _, err := newTestClient(t, server.URL).Transcribe(context.Background(), []byte{0x01}, "fr-FR"); err != nil {
		t.Fatalf("Transcribe() failed: %v", err)
	}
}

func TestTranscribe_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"RecognitionStatus": "NoMatch"})
	}))
	defer server.Close()

	result, err := newTestClient(t, server.URL).Transcribe(context.Background(), []byte{0x01}, "")
	if err != nil {
		t.Fatalf("Transcribe() failed: %v", err)
	}
	if result.Recognized {
		t.Error("Expected unrecognized result for NoMatch")
	}
	if result.Text != "" {
		t.Errorf("Expected empty text, got '%s'", result.Text)
	}
}

func TestTranscribe_EmptyAudio(t *testing.T) {
	_, err := newTestClient(t, "http://localhost:0").Transcribe(context.Background(), nil, "")
	var pe *pipeline.PortError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PortError, got %v", err)
	}
	if pe.Kind != pipeline.PortInvalidInput {
		t.Errorf("Expected invalid_input kind, got %s", pe.Kind)
	}
}

func TestTranscribe_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Transcribe(context.Background(), []byte{0x01}, "")
	var pe *pipeline.PortError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PortError, got %v", err)
	}
	if pe.Kind != pipeline.PortUnavailable {
		t.Errorf("Expected unavailable kind, got %s", pe.Kind)
	}
}
