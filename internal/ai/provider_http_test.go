// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------- Helpers ----------

// newTestServer creates an httptest.Server that responds with the given status
// code and body bytes. The caller must call Close on the returned server.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
}

// openAISuccessBody builds a chat completions response with one choice.
func openAISuccessBody(text string) []byte {
	resp := openAIResponse{
		Choices: []openAIChoice{
			{Message: openAIMessage{Role: "assistant", Content: text}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

// anthropicSuccessBody builds a Messages response with one text block.
func anthropicSuccessBody(text string) []byte {
	resp := anthropicResponse{
		Content: []anthropicContentBlock{
			{Type: "text", Text: text},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

// =====================================================================
// OpenAI Provider Tests
// =====================================================================

func TestOpenAIComplete_Success(t *testing.T) {
	want := "Hello from OpenAI"
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{BaseURL: srv.URL})

	got, err := p.Complete(context.Background(), Completion{Model: "gpt-3.5-turbo", Prompt: "Say hello", APIKey: "k"})
	if err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Complete: got %q, want %q", got, want)
	}
}

func TestOpenAIComplete_VerifiesRequest(t *testing.T) {
	var capturedHeaders http.Header
	var capturedBody []byte
	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedPath = r.URL.Path
		capturedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write(openAISuccessBody("ok"))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{BaseURL: srv.URL + "/"})

	_, err := p.Complete(context.Background(), Completion{Model: "gpt-4o", Prompt: "user prompt", APIKey: "sk-test-12345"})
	if err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}

	if capturedPath != "/chat/completions" {
		t.Errorf("path: got %q, want %q", capturedPath, "/chat/completions")
	}
	if got := capturedHeaders.Get("Authorization"); got != "Bearer sk-test-12345" {
		t.Errorf("Authorization header: got %q", got)
	}
	if got := capturedHeaders.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type: got %q", got)
	}

	var reqBody openAIRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.Model != "gpt-4o" {
		t.Errorf("request model: got %q, want %q", reqBody.Model, "gpt-4o")
	}
	if reqBody.MaxTokens != MaxTokens {
		t.Errorf("max_tokens: got %d, want %d", reqBody.MaxTokens, MaxTokens)
	}
	if len(reqBody.Messages) != 1 {
		t.Fatalf("messages count: got %d, want 1", len(reqBody.Messages))
	}
	if reqBody.Messages[0].Role != "user" || reqBody.Messages[0].Content != "user prompt" {
		t.Errorf("user message: got %+v", reqBody.Messages[0])
	}
}

func TestOpenAIComplete_HTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, []byte(`{"error":"internal"}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{BaseURL: srv.URL})

	_, err := p.Complete(context.Background(), Completion{Model: "m", Prompt: "p", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", se.StatusCode)
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("error should mention status 500: got %q", err.Error())
	}
}

func TestOpenAIComplete_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{not json`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{BaseURL: srv.URL})

	_, err := p.Complete(context.Background(), Completion{Model: "m", Prompt: "p", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
	if !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("error should mention unmarshal: got %q", err.Error())
	}
}

func TestOpenAIComplete_EmptyChoices(t *testing.T) {
	body, _ := json.Marshal(openAIResponse{Choices: []openAIChoice{}})
	srv := newTestServer(t, http.StatusOK, body)
	defer srv.Close()

	p := newOpenAI(ProviderConfig{BaseURL: srv.URL})

	_, err := p.Complete(context.Background(), Completion{Model: "m", Prompt: "p", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for empty choices, got nil")
	}
	if !strings.Contains(err.Error(), "no choices") {
		t.Errorf("error should mention no choices: got %q", err.Error())
	}
}

func TestOpenAIValidateKey(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		var path, auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			auth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"data":[]}`))
		}))
		defer srv.Close()

		p := newOpenAI(ProviderConfig{BaseURL: srv.URL})
		if err := p.ValidateKey(context.Background(), "sk-good"); err != nil {
			t.Fatalf("ValidateKey: unexpected error: %v", err)
		}
		if path != "/models" {
			t.Errorf("path: got %q, want /models", path)
		}
		if auth != "Bearer sk-good" {
			t.Errorf("Authorization: got %q", auth)
		}
	})

	t.Run("rejected key", func(t *testing.T) {
		srv := newTestServer(t, http.StatusUnauthorized, []byte(`{"error":"bad key"}`))
		defer srv.Close()

		p := newOpenAI(ProviderConfig{BaseURL: srv.URL})
		err := p.ValidateKey(context.Background(), "sk-bad")
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 StatusError, got %v", err)
		}
	})
}

// =====================================================================
// Anthropic Provider Tests
// =====================================================================

func TestAnthropicComplete_Success(t *testing.T) {
	want := "Hello from Anthropic"
	srv := newTestServer(t, http.StatusOK, anthropicSuccessBody(want))
	defer srv.Close()

	p := newAnthropic(ProviderConfig{BaseURL: srv.URL})

	got, err := p.Complete(context.Background(), Completion{Model: "claude-3-haiku", Prompt: "hi", APIKey: "k"})
	if err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Complete: got %q, want %q", got, want)
	}
}

func TestAnthropicComplete_VerifiesRequest(t *testing.T) {
	var capturedHeaders http.Header
	var capturedBody []byte
	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedPath = r.URL.Path
		capturedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write(anthropicSuccessBody("ok"))
	}))
	defer srv.Close()

	p := newAnthropic(ProviderConfig{BaseURL: srv.URL})

	_, err := p.Complete(context.Background(), Completion{Model: "claude-3-haiku", Prompt: "build a hero", APIKey: "ant-key"})
	if err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}

	if capturedPath != "/v1/messages" {
		t.Errorf("path: got %q, want /v1/messages", capturedPath)
	}
	if got := capturedHeaders.Get("x-api-key"); got != "ant-key" {
		t.Errorf("x-api-key: got %q", got)
	}
	if got := capturedHeaders.Get("anthropic-version"); got != anthropicVersion {
		t.Errorf("anthropic-version: got %q", got)
	}

	var reqBody anthropicRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.MaxTokens != MaxTokens {
		t.Errorf("max_tokens: got %d, want %d", reqBody.MaxTokens, MaxTokens)
	}
	if len(reqBody.Messages) != 1 || reqBody.Messages[0].Content != "build a hero" {
		t.Errorf("messages: got %+v", reqBody.Messages)
	}
}

func TestAnthropicComplete_NoTextBlock(t *testing.T) {
	body, _ := json.Marshal(anthropicResponse{Content: []anthropicContentBlock{{Type: "tool_use"}}})
	srv := newTestServer(t, http.StatusOK, body)
	defer srv.Close()

	p := newAnthropic(ProviderConfig{BaseURL: srv.URL})

	_, err := p.Complete(context.Background(), Completion{Model: "m", Prompt: "p", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error when no text block is present")
	}
	if !strings.Contains(err.Error(), "no text content") {
		t.Errorf("error should mention no text content: got %q", err.Error())
	}
}

func TestAnthropicComplete_HTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, []byte(`{"type":"error"}`))
	defer srv.Close()

	p := newAnthropic(ProviderConfig{BaseURL: srv.URL})

	_, err := p.Complete(context.Background(), Completion{Model: "m", Prompt: "p", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for HTTP 429, got nil")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Errorf("error should mention status 429: got %q", err.Error())
	}
}

func TestProviderComplete_ContextCancelled(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, openAISuccessBody("late"))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newOpenAI(ProviderConfig{BaseURL: srv.URL})
	if _, err := p.Complete(ctx, Completion{Model: "m", Prompt: "p", APIKey: "k"}); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
