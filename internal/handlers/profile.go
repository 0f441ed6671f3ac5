// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"

	"sitebuilder/internal/ai"
	"sitebuilder/internal/models"
)

// vendorNames maps provider ids to the names shown in messages.
var vendorNames = map[string]string{
	"openai":    "OpenAI",
	"anthropic": "Anthropic",
}

type profileResponse struct {
	Email       string   `json:"email"`
	LLMProvider string   `json:"llm_provider"`
	LLMModel    string   `json:"llm_model"`
	APIKey      string   `json:"api_key"`
	Providers   []string `json:"providers"`
}

type profileRequest struct {
	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	APIKey      string `json:"api_key"`
}

// GetProfile returns the LLM settings of the current user. The API key is
// only ever returned masked.
func (a *API) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.profileOf(user))
}

// UpdateProfile saves provider, model and API key. A new key is validated
// against the provider first; the masked placeholder leaves the stored key
// untouched.
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var in profileRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	provider := strings.ToLower(strings.TrimSpace(in.LLMProvider))
	if provider == "" {
		provider = user.ProviderOr(a.defaults.Provider)
	}
	if !slices.Contains(a.llm.Available(), provider) {
		writeError(w, http.StatusBadRequest, "Unsupported LLM provider: "+in.LLMProvider, nil)
		return
	}
	model := strings.TrimSpace(in.LLMModel)
	if model == "" {
		model = user.ModelOr(a.defaults.Model)
	}

	key := strings.TrimSpace(in.APIKey)
	if key == "" || (key == models.MaskedAPIKey && !user.HasAPIKey()) {
		writeError(w, http.StatusBadRequest, "API key cannot be empty.", nil)
		return
	}

	msg := "API key saved successfully."
	if key == models.MaskedAPIKey {
		key = user.LLMAPIKey
		msg = "No changes made to API key."
	} else if err := a.llm.ValidateKey(r.Context(), provider, key); err != nil {
		slog.Warn("api key validation failed", "user_id", user.ID, "provider", provider, "error", err)
		writeError(w, http.StatusBadRequest, keyErrorMessage(provider, err), nil)
		return
	}

	if err := a.users.SetLLMSettings(user.ID, provider, model, key); err != nil {
		slog.Error("save llm settings failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		return
	}
	user.LLMProvider, user.LLMModel, user.LLMAPIKey = provider, model, key

	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		profileResponse
	}{Message: msg, profileResponse: a.profileOf(user)})
}

func (a *API) profileOf(user *models.User) profileResponse {
	return profileResponse{
		Email:       user.Email,
		LLMProvider: user.ProviderOr(a.defaults.Provider),
		LLMModel:    user.ModelOr(a.defaults.Model),
		APIKey:      user.MaskedKey(),
		Providers:   a.llm.Available(),
	}
}

// keyErrorMessage turns a validation failure into a user-facing message.
func keyErrorMessage(provider string, err error) string {
	var se *ai.StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusUnauthorized:
			return "Invalid API key. Please check and try again."
		case se.StatusCode == http.StatusTooManyRequests:
			return "API key rate limit exceeded. Please try again later."
		case se.StatusCode >= http.StatusInternalServerError:
			vendor := vendorNames[provider]
			if vendor == "" {
				vendor = provider
			}
			return vendor + " service is currently unavailable. Please try again later."
		default:
			return "Error validating API key: " + http.StatusText(se.StatusCode)
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return "Network error. Please check your internet connection and try again."
	}
	return "Error validating API key: " + err.Error()
}
