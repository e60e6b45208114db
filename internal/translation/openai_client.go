// Package translation adapts Azure OpenAI chat completions to the pipeline's
// translation port.
package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/linguaai/translation-gateway/internal/config"
	"github.com/linguaai/translation-gateway/internal/language"
	"github.com/linguaai/translation-gateway/internal/pipeline"
)

const systemPromptFormat = "You are an expert multilingual translator. Translate the following English text to %s. Provide only the direct translation, without any additional commentary or explanations. Be concise and accurate."

// Kept low for deterministic translations.
const translationTemperature = 0.3

const translationMaxTokens = 250

// OpenAIClient implements pipeline.TranslationPort using an Azure OpenAI
// chat deployment.
type OpenAIClient struct {
	client     *openai.Client
	deployment string
}

// NewOpenAIClient creates a translation client from config.
func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	azureCfg := openai.DefaultAzureConfig(cfg.OpenAIAPIKey, cfg.OpenAIEndpoint)
	azureCfg.APIVersion = cfg.OpenAIAPIVersion
	deployment := cfg.OpenAIDeployment
	azureCfg.AzureModelMapperFunc = func(model string) string {
		return deployment
	}
	azureCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(azureCfg),
		deployment: deployment,
	}
}

// Translate requests a direct translation of text into the target language.
// The prompt uses the language display name, matching how the deployment was
// tuned to be addressed.
func (c *OpenAIClient) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	lang, ok := language.Lookup(targetLanguage)
	if !ok {
		return "", pipeline.NewPortError(pipeline.PortInvalidInput, "unsupported target language "+targetLanguage, nil)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.deployment,
		Temperature: translationTemperature,
		MaxTokens:   translationMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPromptFormat, lang.Name),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", pipeline.NewPortError(pipeline.PortUnknown, "completion returned no choices", nil)
	}
	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", pipeline.NewPortError(pipeline.PortUnknown, "completion returned empty translation", nil)
	}
	return translated, nil
}

func classifyOpenAIError(err error) *pipeline.PortError {
	if errors.Is(err, context.DeadlineExceeded) {
		return pipeline.NewPortError(pipeline.PortTimeout, "translation request timed out", err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusBadRequest:
			return pipeline.NewPortError(pipeline.PortInvalidInput, apiErr.Message, err)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return pipeline.NewPortError(pipeline.PortRateLimited, apiErr.Message, err)
		case apiErr.HTTPStatusCode == http.StatusRequestTimeout || apiErr.HTTPStatusCode == http.StatusGatewayTimeout:
			return pipeline.NewPortError(pipeline.PortTimeout, apiErr.Message, err)
		case apiErr.HTTPStatusCode >= 500:
			return pipeline.NewPortError(pipeline.PortUnavailable, apiErr.Message, err)
		default:
			return pipeline.NewPortError(pipeline.PortUnknown, apiErr.Message, err)
		}
	}

	return pipeline.NewPortError(pipeline.PortUnavailable, "translation request failed", err)
}
