// Package extraction implements the pipeline's extraction backend against the
// Anthropic Messages API. The pipeline only sees the ExtractionBackend
// interface; swapping the model or provider touches nothing downstream.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"skyvault/internal/schema"
	"skyvault/pkg/platform/sentinel"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	apiVersion       = "2023-06-01"
	extractMaxTokens = 4096
)

// Config carries the backend's connection settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// AnthropicBackend calls the Messages API and parses the model's JSON answer
// into a generic tree for the normalizer.
type AnthropicBackend struct {
	client *resty.Client
	model  string
}

func NewAnthropic(cfg Config) *AnthropicBackend {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("Content-Type", "application/json")

	return &AnthropicBackend{client: client, model: model}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Extract sends the transcript for structured extraction. Transport errors,
// non-2xx responses and unparseable model output are all extraction failures;
// no partial record ever escapes this layer.
func (b *AnthropicBackend) Extract(ctx context.Context, transcript string, lang schema.Language, formType schema.FormType) (map[string]any, error) {
	userMessage := fmt.Sprintf(
		"Extract KYC data from this transcript.\n\nSource language hint: %s\nForm type: %s\n\nTRANSCRIPT:\n%s\n\nRemember: Return ONLY valid JSON, no markdown formatting.",
		lang, formType, transcript,
	)

	var out messagesResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(messagesRequest{
			Model:     b.model,
			MaxTokens: extractMaxTokens,
			System:    systemPrompt,
			Messages:  []message{{Role: "user", Content: userMessage}},
		}).
		SetResult(&out).
		Post("/v1/messages")
	if err != nil {
		return nil, fmt.Errorf("extraction request: %w: %w", sentinel.ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("extraction request: %w: status %d", sentinel.ErrUnavailable, resp.StatusCode())
	}
	if len(out.Content) == 0 {
		return nil, fmt.Errorf("extraction response: empty content")
	}

	raw, err := parseModelJSON(out.Content[0].Text)
	if err != nil {
		return nil, fmt.Errorf("extraction response: %w", err)
	}
	return raw, nil
}

// parseModelJSON unwraps the model's answer into a JSON tree, stripping the
// markdown fences models sometimes add despite instructions.
func parseModelJSON(text string) (map[string]any, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "json")
		if end := strings.LastIndex(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	return raw, nil
}
