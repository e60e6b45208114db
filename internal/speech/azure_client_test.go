package speech

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linguaai/translation-gateway/internal/config"
	"github.com/linguaai/translation-gateway/internal/pipeline"
)

func newTestClient(t *testing.T, url string, overrides map[string]string) *AzureClient {
	t.Helper()
	client := NewAzureClient(&config.Config{
		SpeechKey:            "test-key",
		SpeechRegion:         "eastus",
		SpeechVoiceOverrides: overrides,
		RequestTimeout:       5,
	})
	client.endpoint = url
	return client
}

func TestSynthesize(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33, 0x00, 0x01}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			t.Errorf("Expected subscription key header, got '%s'", r.Header.Get("Ocp-Apim-Subscription-Key"))
		}
		if r.Header.Get("X-Microsoft-OutputFormat") != "audio-16khz-32kbitrate-mono-mp3" {
			t.Errorf("Unexpected output format '%s'", r.Header.Get("X-Microsoft-OutputFormat"))
		}
		body, _ := io.ReadAll(r.Body)
		ssml := string(body)
		if !strings.Contains(ssml, "name='es-ES-AlvaroNeural'") {
			t.Errorf("Expected registry voice in SSML, got %s", ssml)
		}
		if !strings.Contains(ssml, ">Buenos días<") {
			t.Errorf("Expected text in SSML, got %s", ssml)
		}
		w.Write(audio)
	}))
	defer server.Close()

	got, err := newTestClient(t, server.URL, nil).Synthesize(context.Background(), "Buenos días", "es-ES")
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("Expected %v, got %v", audio, got)
	}
}

func TestSynthesize_VoiceOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "name='es-ES-ElviraNeural'") {
			t.Errorf("Expected override voice in SSML, got %s", body)
		}
		w.Write([]byte{0x01})
	}))
	defer server.Close()

	overrides := map[string]string{"es-ES": "es-ES-ElviraNeural"}
	if _, err := newTestClient(t, server.URL, overrides).Synthesize(context.Background(), "hola", "Spanish"); err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
}

func TestSynthesize_EscapesText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "<b>") {
			t.Errorf("Markup not escaped in SSML: %s", body)
		}
		if !strings.Contains(string(body), "&lt;b&gt;") {
			t.Errorf("Expected escaped markup in SSML, got %s", body)
		}
		w.Write([]byte{0x01})
	}))
	defer server.Close()

	if _, err := newTestClient(t, server.URL, nil).Synthesize(context.Background(), "<b>bonjour</b>", "fr"); err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
}

func TestSynthesize_EmptyAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, nil).Synthesize(context.Background(), "ciao", "it-IT")
	var pe *pipeline.PortError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PortError, got %v", err)
	}
	if pe.Kind != pipeline.PortUnknown {
		t.Errorf("Expected unknown kind for empty audio, got %s", pe.Kind)
	}
}

func TestSynthesize_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, nil).Synthesize(context.Background(), "hallo", "de-DE")
	var pe *pipeline.PortError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PortError, got %v", err)
	}
	if pe.Kind != pipeline.PortRateLimited {
		t.Errorf("Expected rate_limited kind, got %s", pe.Kind)
	}
}

func TestSynthesize_UnsupportedLanguage(t *testing.T) {
	_, err := newTestClient(t, "http://localhost:0", nil).Synthesize(context.Background(), "hi", "xx")
	var pe *pipeline.PortError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PortError, got %v", err)
	}
	if pe.Kind != pipeline.PortInvalidInput {
		t.Errorf("Expected invalid_input kind, got %s", pe.Kind)
	}
}
