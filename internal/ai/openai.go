package ai

import (
	"context"
	"errors"
	"net/http"
)

// openAIProvider talks to the OpenAI chat completions API.
type openAIProvider struct {
	endpoint
}

func newOpenAI(cfg ProviderConfig) *openAIProvider {
	return &openAIProvider{newEndpoint("openai", "https://api.openai.com/v1", cfg,
		func(h http.Header, apiKey string) {
			h.Set("Authorization", "Bearer "+apiKey)
		})}
}

func (p *openAIProvider) Name() string { return "openai" }

// Complete sends the prompt as a single user message and returns the first
// choice's content.
func (p *openAIProvider) Complete(ctx context.Context, c Completion) (string, error) {
	in := openAIRequest{
		Model:     c.Model,
		Messages:  []openAIMessage{{Role: "user", Content: c.Prompt}},
		MaxTokens: MaxTokens,
	}
	var out openAIResponse
	if err := p.call(ctx, http.MethodPost, "/chat/completions", c.APIKey, in, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}
	return out.Choices[0].Message.Content, nil
}

// ValidateKey lists models with apiKey. A rejected key surfaces as a
// *StatusError so callers can map the status to a message.
func (p *openAIProvider) ValidateKey(ctx context.Context, apiKey string) error {
	return p.call(ctx, http.MethodGet, "/models", apiKey, nil, nil)
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}
