// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API of the site builder: auth,
// profile, websites, pages, LLM-driven sections, header/footer slots and
// the assembled page preview.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitebuilder/internal/ai"
	"sitebuilder/internal/middleware"
	"sitebuilder/internal/models"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// UserRepository is the subset of store.UserStore the handlers use.
type UserRepository interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Create(email, password string) (*models.User, error)
	SetLLMSettings(userID uuid.UUID, provider, model, apiKey string) error
	CheckPassword(user *models.User, password string) bool
}

// WebsiteRepository is the subset of store.WebsiteStore the handlers use.
type WebsiteRepository interface {
	ListByUser(userID uuid.UUID) ([]models.Website, error)
	FindOwned(id, userID uuid.UUID) (*models.Website, error)
	Create(userID uuid.UUID, name, context string) (*models.Website, error)
	Update(id, userID uuid.UUID, name, context string) (bool, error)
	UpdateCustomization(id, userID uuid.UUID, c models.Customization) (bool, error)
	SetSlot(id uuid.UUID, kind models.SlotKind, slot models.Slot) error
	Delete(id, userID uuid.UUID) (bool, error)
}

// PageRepository is the subset of store.PageStore the handlers use.
type PageRepository interface {
	ListByWebsite(websiteID uuid.UUID) ([]models.Page, error)
	FindHomePages(websiteID uuid.UUID) ([]models.Page, error)
	Find(websiteID, id uuid.UUID) (*models.Page, error)
	FindBySlug(websiteID uuid.UUID, slug string) (*models.Page, error)
	SlugTaken(websiteID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
	Create(p *models.Page) (*models.Page, error)
	Update(p *models.Page) error
	SaveSections(websiteID, id uuid.UUID, list models.Sections) error
	Delete(websiteID, id uuid.UUID) (bool, error)
}

// LLM is the request layer; *ai.Dispatcher satisfies it.
type LLM interface {
	Send(ctx context.Context, env ai.Envelope) (*ai.Result, error)
	ValidateKey(ctx context.Context, provider, apiKey string) error
	Available() []string
}

// PreviewCache stores assembled preview documents; *cache.PreviewCache
// satisfies it.
type PreviewCache interface {
	Get(ctx context.Context, websiteID, pageID uuid.UUID) ([]byte, bool)
	Set(ctx context.Context, websiteID, pageID uuid.UUID, html []byte)
	InvalidatePage(ctx context.Context, websiteID, pageID uuid.UUID)
	InvalidateWebsite(ctx context.Context, websiteID uuid.UUID)
}

// LLMDefaults apply to users who never picked a provider or model.
type LLMDefaults struct {
	Provider string
	Model    string
}

// API groups the authenticated JSON handlers.
type API struct {
	users    UserRepository
	websites WebsiteRepository
	pages    PageRepository
	llm      LLM
	previews PreviewCache
	defaults LLMDefaults
	now      func() time.Time
}

// NewAPI creates the authenticated handler group.
func NewAPI(users UserRepository, websites WebsiteRepository, pages PageRepository, llm LLM, previews PreviewCache, defaults LLMDefaults) *API {
	return &API{
		users:    users,
		websites: websites,
		pages:    pages,
		llm:      llm,
		previews: previews,
		defaults: defaults,
		now:      time.Now,
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// messageResponse acknowledges a mutation without returning an entity.
type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes the error envelope. err, when set, is exposed in the
// "error" member.
func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Message: msg}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.", err)
		return false
	}
	return true
}

// urlUUID parses a chi URL parameter as a UUID.
func urlUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// sessionUserID returns the authenticated user's id.
func sessionUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return uuid.Nil, false
	}
	return sess.UserID, true
}

// currentUser loads the authenticated user.
func (a *API) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return nil, false
	}
	user, err := a.users.FindByID(userID)
	if err != nil {
		slog.Error("find user failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Error loading user", err)
		return nil, false
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return nil, false
	}
	return user, true
}

// llmUser loads the authenticated user and insists on a stored API key.
func (a *API) llmUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return nil, false
	}
	if !user.HasAPIKey() {
		writeError(w, http.StatusBadRequest, "LLM API key not set for this user", nil)
		return nil, false
	}
	return user, true
}

// ownedWebsite resolves {id} to a website of the authenticated user.
// Another user's website reads as not found.
func (a *API) ownedWebsite(w http.ResponseWriter, r *http.Request) (*models.Website, bool) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return nil, false
	}
	id, ok := urlUUID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Website not found", nil)
		return nil, false
	}
	site, err := a.websites.FindOwned(id, userID)
	if err != nil {
		slog.Error("find website failed", "error", err, "website_id", id)
		writeError(w, http.StatusInternalServerError, "Error fetching website", err)
		return nil, false
	}
	if site == nil {
		writeError(w, http.StatusNotFound, "Website not found", nil)
		return nil, false
	}
	return site, true
}

// ownedPage resolves {id} and {pageID} to a page of an owned website.
func (a *API) ownedPage(w http.ResponseWriter, r *http.Request) (*models.Website, *models.Page, bool) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return nil, nil, false
	}
	pageID, ok := urlUUID(r, "pageID")
	if !ok {
		writeError(w, http.StatusNotFound, "Page not found", nil)
		return nil, nil, false
	}
	page, err := a.pages.Find(site.ID, pageID)
	if err != nil {
		slog.Error("find page failed", "error", err, "page_id", pageID)
		writeError(w, http.StatusInternalServerError, "Error fetching page", err)
		return nil, nil, false
	}
	if page == nil {
		writeError(w, http.StatusNotFound, "Page not found", nil)
		return nil, nil, false
	}
	return site, page, true
}

// generate sends a structured request on behalf of user and returns the
// {content, css} pair.
func (a *API) generate(ctx context.Context, user *models.User, prompt string) (ai.Structured, error) {
	res, err := a.llm.Send(ctx, ai.Envelope{
		Provider:         user.ProviderOr(a.defaults.Provider),
		Model:            user.ModelOr(a.defaults.Model),
		Prompt:           prompt,
		APIKey:           user.LLMAPIKey,
		ExpectStructured: true,
	})
	if err != nil {
		return ai.Structured{}, err
	}
	return res.Structured(), nil
}

// writeGenerationError maps a failed generation to a response. An
// unsupported provider is the caller's fault; everything else is terminal.
func writeGenerationError(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ai.ErrUnsupportedProvider) {
		status = http.StatusBadRequest
	}
	slog.Error(msg, "error", err)
	writeError(w, status, msg, err)
}
