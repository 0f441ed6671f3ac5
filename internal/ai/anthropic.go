// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"net/http"
)

// anthropicVersion is the Messages API version header value.
const anthropicVersion = "2023-06-01"

// anthropicProvider talks to the Anthropic Messages API.
type anthropicProvider struct {
	endpoint
}

func newAnthropic(cfg ProviderConfig) *anthropicProvider {
	return &anthropicProvider{newEndpoint("anthropic", "https://api.anthropic.com", cfg,
		func(h http.Header, apiKey string) {
			h.Set("x-api-key", apiKey)
			h.Set("anthropic-version", anthropicVersion)
		})}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

// Complete sends the prompt as a single user message and returns the first
// text block of the reply.
func (p *anthropicProvider) Complete(ctx context.Context, c Completion) (string, error) {
	in := anthropicRequest{
		Model:     c.Model,
		MaxTokens: MaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: c.Prompt}},
	}
	var out anthropicResponse
	if err := p.call(ctx, http.MethodPost, "/v1/messages", c.APIKey, in, &out); err != nil {
		return "", err
	}
	for _, block := range out.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", errors.New("anthropic: no text content in response")
}

// ValidateKey lists models with apiKey.
func (p *anthropicProvider) ValidateKey(ctx context.Context, apiKey string) error {
	return p.call(ctx, http.MethodGet, "/v1/models", apiKey, nil, nil)
}


type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}
