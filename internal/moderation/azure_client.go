// Package moderation adapts the Azure Content Safety text analysis API to
// the pipeline's moderation port.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/linguaai/translation-gateway/internal/azure"
	"github.com/linguaai/translation-gateway/internal/config"
	"github.com/linguaai/translation-gateway/internal/pipeline"
)

// AzureClient implements pipeline.ModerationPort against Azure Content Safety.
type AzureClient struct {
	endpoint   string
	apiKey     string
	apiVersion string
	httpClient *http.Client
}

// NewAzureClient creates a Content Safety client from config.
func NewAzureClient(cfg *config.Config) *AzureClient {
	return &AzureClient{
		endpoint:   strings.TrimRight(cfg.ContentSafetyEndpoint, "/"),
		apiKey:     cfg.ContentSafetyKey,
		apiVersion: cfg.ContentSafetyAPIVersion,
		httpClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second},
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	CategoriesAnalysis []categoryAnalysis `json:"categoriesAnalysis"`
}

type categoryAnalysis struct {
	Category string `json:"category"`
	Severity int    `json:"severity"`
}

// Evaluate analyzes text for unsafe content. Any category with severity
// above zero flags the text. Errors fail closed: the caller never proceeds
// on an unevaluated input.
func (c *AzureClient) Evaluate(ctx context.Context, text string) (pipeline.ModerationResult, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return pipeline.ModerationResult{}, pipeline.NewPortError(pipeline.PortUnknown, "failed to marshal request", err)
	}

	url := fmt.Sprintf("%s/contentsafety/text:analyze?api-version=%s", c.endpoint, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return pipeline.ModerationResult{}, pipeline.NewPortError(pipeline.PortUnknown, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pipeline.ModerationResult{}, azure.TransportError("content safety request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pipeline.ModerationResult{}, azure.StatusError("content safety", resp)
	}

	var analysis analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return pipeline.ModerationResult{}, pipeline.NewPortError(pipeline.PortUnknown, "failed to decode content safety response", err)
	}

	result := pipeline.ModerationResult{}
	for _, category := range analysis.CategoriesAnalysis {
		if category.Severity > 0 {
			result.Flagged = true
			result.Categories = append(result.Categories, category.Category)
		}
	}
	return result, nil
}
