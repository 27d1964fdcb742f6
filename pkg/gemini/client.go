// Package gemini binds a Google Gen AI SDK client to a single model.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const defaultTimeout = 60 * time.Second

// ErrMissingAPIKey is returned when no key is configured.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// Config configures a Generator.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Generator calls generateContent on one model. The HTTP client timeout is the only deadline applied to a call.
type Generator struct {
	models *genai.Models
	model  string
}

// NewGenerator builds a Gemini API client. BaseURL is optional and overrides the public endpoint.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini: model is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Generator{models: client.Models, model: cfg.Model}, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.model
}

// GenerateContent sends one request to the configured model.
func (g *Generator) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.models.GenerateContent(ctx, g.model, contents, config)
}

// ResponseText returns the concatenated text of the first candidate, or "" when there is none.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	return resp.Text()
}

// BlockReason reports why the prompt was blocked, or "" when it was not.
func BlockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.PromptFeedback == nil {
		return ""
	}
	return string(resp.PromptFeedback.BlockReason)
}
