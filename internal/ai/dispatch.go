// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnsupportedProvider is returned, without any network call, when an
	// envelope names a provider outside the lookup table.
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")

	// ErrMalformedResult marks an attempt whose completion was not valid JSON
	// while a structured result was expected.
	ErrMalformedResult = errors.New("failed to parse JSON response")
)

// Envelope is a normalized LLM request as built by HTTP handlers.
type Envelope struct {
	Provider         string
	Model            string
	Prompt           string
	APIKey           string
	ExpectStructured bool
}

// Result is the outcome of a successful Send. Text always holds the raw
// completion; Data holds the parsed JSON value in structured mode.
type Result struct {
	Text string
	Data any
}

// Structured destructures Data into the {content, css} pair.
func (r *Result) Structured() Structured {
	return DecodeStructured(r.Data)
}

// Dispatcher selects a provider by name and drives it through the retry
// policy. All methods are safe for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	providers map[string]Provider
	policy    RetryPolicy
}

// NewDispatcher creates a dispatcher with the two built-in providers.
// configs is keyed by provider name; missing entries use vendor defaults.
func NewDispatcher(policy RetryPolicy, configs map[string]ProviderConfig) *Dispatcher {
	d := &Dispatcher{
		providers: make(map[string]Provider),
		policy:    policy,
	}
	d.Register(newOpenAI(configs["openai"]))
	d.Register(newAnthropic(configs["anthropic"]))
	return d
}

// Register adds or replaces a provider under its lower-cased Name.
func (d *Dispatcher) Register(p Provider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.providers[strings.ToLower(p.Name())] = p
}

// Lookup resolves a provider name case-insensitively.
func (d *Dispatcher) Lookup(name string) (Provider, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}
	return p, nil
}

// Available returns the sorted names of all registered providers.
func (d *Dispatcher) Available() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.providers))
	for name := range d.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Send resolves the provider, then calls it under the retry policy. In
// structured mode an attempt only succeeds once the completion parses as
// JSON; a parse failure triggers a fresh network call, not a reparse.
func (d *Dispatcher) Send(ctx context.Context, env Envelope) (*Result, error) {
	p, err := d.Lookup(env.Provider)
	if err != nil {
		return nil, err
	}

	completion := Completion{Model: env.Model, Prompt: env.Prompt, APIKey: env.APIKey}

	var result *Result
	err = Retry(ctx, d.policy, func(ctx context.Context) error {
		slog.Info("sending llm request", "provider", p.Name(), "model", env.Model)
		slog.Debug("llm prompt", "provider", p.Name(), "prompt", env.Prompt)

		text, err := p.Complete(ctx, completion)
		if err != nil {
			return err
		}
		slog.Debug("llm response", "provider", p.Name(), "response", text)

		if !env.ExpectStructured {
			result = &Result{Text: text}
			return nil
		}

		data := ExtractJSON(text)
		if data == nil {
			return ErrMalformedResult
		}
		result = &Result{Text: text, Data: data}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateKey checks an API key against the named provider, when the
// provider supports it. Providers without a validation endpoint accept any
// non-empty key.
func (d *Dispatcher) ValidateKey(ctx context.Context, provider, apiKey string) error {
	p, err := d.Lookup(provider)
	if err != nil {
		return err
	}
	v, ok := p.(KeyValidator)
	if !ok {
		return nil
	}
	return v.ValidateKey(ctx, apiKey)
}
