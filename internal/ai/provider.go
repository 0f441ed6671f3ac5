// Package ai is the LLM request layer of the site builder. Each vendor is a
// Provider behind a uniform text-completion contract; the Dispatcher picks
// one by name, drives it through a flat retry policy, and optionally parses
// the completion as JSON.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxTokens caps the length of every completion, for every provider.
const MaxTokens = 1024

// errorBodyLimit bounds how much of an upstream error body ends up in an error.
const errorBodyLimit = 2048

// Completion is a single provider call: one prompt, one model, one credential.
type Completion struct {
	Model  string
	Prompt string
	APIKey string
}

// Provider defines the capability every LLM vendor adapter implements.
type Provider interface {
	// Complete issues exactly one upstream request and returns the text of
	// the single completion.
	Complete(ctx context.Context, c Completion) (string, error)

	// Name returns the canonical lower-case provider identifier.
	Name() string
}

// KeyValidator is implemented by providers that can check an API key
// without generating anything.
type KeyValidator interface {
	ValidateKey(ctx context.Context, apiKey string) error
}

// ProviderConfig holds the transport settings for a single provider.
// Credentials are per user and travel with each Completion instead.
type ProviderConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StatusError is returned when a provider answers with a non-200 status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// DefaultTimeout bounds a single upstream call when ProviderConfig sets none.
const DefaultTimeout = 60 * time.Second

// endpoint is the JSON-over-HTTP plumbing the vendor adapters share.
type endpoint struct {
	vendor  string
	baseURL string
	client  *http.Client
	auth    func(h http.Header, apiKey string)
}

func newEndpoint(vendor, defaultURL string, cfg ProviderConfig, auth func(http.Header, string)) endpoint {
	base := cfg.BaseURL
	if base == "" {
		base = defaultURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return endpoint{
		vendor:  vendor,
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: timeout},
		auth:    auth,
	}
}

// call sends in as a JSON body (none when nil) to path and decodes a 200
// answer into out (discarded when nil). Other statuses become a *StatusError.
func (e endpoint) call(ctx context.Context, method, path, apiKey string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s marshal: %w", e.vendor, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s request: %w", e.vendor, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	e.auth(req.Header, apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s http: %w", e.vendor, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(e.vendor, resp)
	}
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s unmarshal: %w", e.vendor, err)
	}
	return nil
}

// statusError drains a bounded slice of resp's body into a StatusError.
func statusError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &StatusError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
