// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaskedAPIKey is what the profile endpoint shows in place of a stored key.
// Submitting it back unchanged means "keep the current key".
var MaskedAPIKey = strings.Repeat("*", 32)

// User is an account that owns websites and carries its own LLM settings.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	LLMProvider  string    `json:"llm_provider"`
	LLMModel     string    `json:"llm_model"`
	LLMAPIKey    string    `json:"-"` // Never serialize the key
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasAPIKey reports whether the user has stored an LLM credential.
func (u *User) HasAPIKey() bool {
	return strings.TrimSpace(u.LLMAPIKey) != ""
}

// MaskedKey returns MaskedAPIKey when a key is stored, or "" otherwise.
func (u *User) MaskedKey() string {
	if !u.HasAPIKey() {
		return ""
	}
	return MaskedAPIKey
}

// ProviderOr returns the user's provider, falling back to def when unset.
func (u *User) ProviderOr(def string) string {
	if u.LLMProvider == "" {
		return def
	}
	return u.LLMProvider
}

// ModelOr returns the user's model, falling back to def when unset.
func (u *User) ModelOr(def string) string {
	if u.LLMModel == "" {
		return def
	}
	return u.LLMModel
}
