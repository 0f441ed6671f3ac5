// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"sitebuilder/internal/models"
)

type websiteRequest struct {
	Name    string `json:"name"`
	Context string `json:"context"`
}

type customizationRequest struct {
	TargetAudience     string `json:"target_audience"`
	MainGoal           string `json:"main_goal"`
	UniqueSellingPoint string `json:"unique_selling_point"`
	BrandPersonality   string `json:"brand_personality"`
}

// ListWebsites returns the websites of the current user.
func (a *API) ListWebsites(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}
	sites, err := a.websites.ListByUser(userID)
	if err != nil {
		slog.Error("list websites failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Error fetching websites", nil)
		return
	}
	if sites == nil {
		sites = []models.Website{}
	}
	writeJSON(w, http.StatusOK, sites)
}

// CreateWebsite adds a website owned by the current user.
func (a *API) CreateWebsite(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}
	var in websiteRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	name, context := plainText(in.Name), plainText(in.Context)
	if msg := validateWebsite(name, context); msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}

	site, err := a.websites.Create(userID, name, context)
	if err != nil {
		slog.Error("create website failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Error adding website", nil)
		return
	}
	slog.Info("website created", "website_id", site.ID, "user_id", userID)
	writeJSON(w, http.StatusCreated, site)
}

// GetWebsite returns one owned website.
func (a *API) GetWebsite(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, site)
}

// UpdateWebsite changes name and context.
func (a *API) UpdateWebsite(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return
	}
	var in websiteRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	name, context := plainText(in.Name), plainText(in.Context)
	if msg := validateWebsite(name, context); msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}

	updated, err := a.websites.Update(site.ID, site.UserID, name, context)
	if err != nil {
		slog.Error("update website failed", "error", err, "website_id", site.ID)
		writeError(w, http.StatusInternalServerError, "Error updating website", nil)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "Website not found", nil)
		return
	}
	a.previews.InvalidateWebsite(r.Context(), site.ID)

	site.Name, site.Context = name, context
	writeJSON(w, http.StatusOK, site)
}

// DeleteWebsite removes a website and, through the foreign key, its pages.
func (a *API) DeleteWebsite(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return
	}
	deleted, err := a.websites.Delete(site.ID, site.UserID)
	if err != nil {
		slog.Error("delete website failed", "error", err, "website_id", site.ID)
		writeError(w, http.StatusInternalServerError, "Error deleting website", nil)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Website not found", nil)
		return
	}
	a.previews.InvalidateWebsite(r.Context(), site.ID)
	slog.Info("website deleted", "website_id", site.ID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Website deleted successfully"})
}

// SaveCustomization stores the four answers fed into every prompt.
func (a *API) SaveCustomization(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return
	}
	var in customizationRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	c := models.Customization{
		TargetAudience:     plainText(in.TargetAudience),
		MainGoal:           plainText(in.MainGoal),
		UniqueSellingPoint: plainText(in.UniqueSellingPoint),
		BrandPersonality:   plainText(in.BrandPersonality),
	}
	if msg := validateCustomization(c.TargetAudience, c.MainGoal, c.UniqueSellingPoint, c.BrandPersonality); msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}

	updated, err := a.websites.UpdateCustomization(site.ID, site.UserID, c)
	if err != nil {
		slog.Error("save customization failed", "error", err, "website_id", site.ID)
		writeError(w, http.StatusInternalServerError, "Error saving website customization", err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "Website not found", nil)
		return
	}
	a.previews.InvalidateWebsite(r.Context(), site.ID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Website customization saved successfully"})
}
