// Package speech adapts the Azure Speech text-to-speech REST API to the
// pipeline's speech port.
package speech

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/linguaai/translation-gateway/internal/azure"
	"github.com/linguaai/translation-gateway/internal/config"
	"github.com/linguaai/translation-gateway/internal/language"
	"github.com/linguaai/translation-gateway/internal/pipeline"
)

// Output format matches what the browser audio element can play directly.
const outputFormat = "audio-16khz-32kbitrate-mono-mp3"

// AzureClient implements pipeline.SpeechPort against Azure Speech.
type AzureClient struct {
	endpoint       string
	apiKey         string
	voiceOverrides map[string]string // canonical code -> voice name
	httpClient     *http.Client
}

// NewAzureClient creates a speech synthesis client from config.
func NewAzureClient(cfg *config.Config) *AzureClient {
	return &AzureClient{
		endpoint:       fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", cfg.SpeechRegion),
		apiKey:         cfg.SpeechKey,
		voiceOverrides: cfg.SpeechVoiceOverrides,
		httpClient:     &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second},
	}
}

// Synthesize renders text as MP3 audio using the neural voice registered for
// the target language, or the configured override for that language.
func (c *AzureClient) Synthesize(ctx context.Context, text, targetLanguage string) ([]byte, error) {
	lang, ok := language.Lookup(targetLanguage)
	if !ok {
		return nil, pipeline.NewPortError(pipeline.PortInvalidInput, "unsupported target language "+targetLanguage, nil)
	}
	voice := lang.Voice
	if override, ok := c.voiceOverrides[lang.Code]; ok {
		voice = override
	}

	ssml, err := buildSSML(lang.Code, voice, text)
	if err != nil {
		return nil, pipeline.NewPortError(pipeline.PortUnknown, "failed to build ssml", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(ssml))
	if err != nil {
		return nil, pipeline.NewPortError(pipeline.PortUnknown, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("X-Microsoft-OutputFormat", outputFormat)
	req.Header.Set("User-Agent", "translation-gateway")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, azure.TransportError("speech synthesis request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, azure.StatusError("speech synthesis", resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, azure.TransportError("failed to read synthesized audio", err)
	}
	if len(audio) == 0 {
		return nil, pipeline.NewPortError(pipeline.PortUnknown, "speech synthesis returned no audio", nil)
	}
	return audio, nil
}

func buildSSML(langCode, voice, text string) ([]byte, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		"<speak version='1.0' xml:lang='%s'><voice xml:lang='%s' name='%s'>%s</voice></speak>",
		langCode, langCode, voice, escaped.String())
	return buf.Bytes(), nil
}
