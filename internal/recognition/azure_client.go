// Package recognition adapts the Azure Speech short-form recognition REST
// API. It backs the pronunciation practice endpoint and sits outside the
// translation pipeline core.
package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/linguaai/translation-gateway/internal/azure"
	"github.com/linguaai/translation-gateway/internal/config"
	"github.com/linguaai/translation-gateway/internal/pipeline"
)

// Result is the outcome of one recognition request.
type Result struct {
	// Text is the recognized utterance, empty when nothing matched.
	Text string

	// Recognized reports whether the service matched speech in the audio.
	Recognized bool
}

// Client transcribes short audio clips.
type Client interface {
	Transcribe(ctx context.Context, wavAudio []byte, lang string) (Result, error)
}

// AzureClient implements Client against the Azure Speech STT REST API.
type AzureClient struct {
	endpoint    string
	apiKey      string
	defaultLang string
	httpClient  *http.Client
}

// NewAzureClient creates a recognition client from config.
func NewAzureClient(cfg *config.Config) *AzureClient {
	return &AzureClient{
		endpoint:    fmt.Sprintf("https://%s.stt.speech.microsoft.com/speech/recognition/conversation/cognitiveservices/v1", cfg.SpeechRegion),
		apiKey:      cfg.SpeechKey,
		defaultLang: cfg.RecognitionLanguage,
		httpClient:  &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second},
	}
}

type recognitionResponse struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
}

// Transcribe sends a complete WAV clip for recognition. lang is a BCP-47
// tag; empty means the configured default.
func (c *AzureClient) Transcribe(ctx context.Context, wavAudio []byte, lang string) (Result, error) {
	if len(wavAudio) == 0 {
		return Result{}, pipeline.NewPortError(pipeline.PortInvalidInput, "empty audio payload", nil)
	}
	if lang == "" {
		lang = c.defaultLang
	}

	url := fmt.Sprintf("%s?language=%s&format=simple", c.endpoint, lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(wavAudio))
	if err != nil {
		return Result{}, pipeline.NewPortError(pipeline.PortUnknown, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "audio/wav; codecs=audio/pcm; samplerate=16000")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, azure.TransportError("speech recognition request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, azure.StatusError("speech recognition", resp)
	}

	var parsed recognitionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{}, pipeline.NewPortError(pipeline.PortUnknown, "failed to decode recognition response", err)
	}

	switch parsed.RecognitionStatus {
	case "Success":
		return Result{Text: parsed.DisplayText, Recognized: true}, nil
	case "NoMatch", "InitialSilenceTimeout", "BabbleTimeout":
		// The audio was processed but contained no recognizable speech.
		return Result{Recognized: false}, nil
	default:
		return Result{}, pipeline.NewPortError(pipeline.PortUnknown,
			fmt.Sprintf("recognition ended with status %s", parsed.RecognitionStatus), nil)
	}
}
