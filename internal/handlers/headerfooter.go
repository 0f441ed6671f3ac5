// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitebuilder/internal/models"
	"sitebuilder/internal/prompt"
)

type headerFooterResponse struct {
	Header models.Slot `json:"header"`
	Footer models.Slot `json:"footer"`
}

// GetHeaderFooter returns both slots of a website.
func (a *API) GetHeaderFooter(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, headerFooterResponse{Header: site.Header, Footer: site.Footer})
}

// GenerateSlot generates a header or footer from scratch, styled after the
// website's home pages.
func (a *API) GenerateSlot(w http.ResponseWriter, r *http.Request) {
	site, kind, ok := a.slotTarget(w, r)
	if !ok {
		return
	}
	user, ok := a.llmUser(w, r)
	if !ok {
		return
	}
	home, ok := a.homeSections(w, site)
	if !ok {
		return
	}

	failMsg := "Error generating " + string(kind)
	out, err := a.generate(r.Context(), user, prompt.SlotGenerate(site, kind, home))
	if err != nil {
		writeGenerationError(w, failMsg, err)
		return
	}
	a.storeSlot(w, r, site, kind, models.Slot{Content: out.Content, CSS: out.CSS}, failMsg)
}

// EditSlot revises the current header or footer from a description.
func (a *API) EditSlot(w http.ResponseWriter, r *http.Request) {
	site, kind, ok := a.slotTarget(w, r)
	if !ok {
		return
	}
	var in sectionRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validateDescription(in.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}
	user, ok := a.llmUser(w, r)
	if !ok {
		return
	}
	home, ok := a.homeSections(w, site)
	if !ok {
		return
	}

	failMsg := "Error editing " + string(kind)
	out, err := a.generate(r.Context(), user, prompt.SlotEdit(site, kind, home, in.Description))
	if err != nil {
		writeGenerationError(w, failMsg, err)
		return
	}
	a.storeSlot(w, r, site, kind, models.Slot{Content: out.Content, CSS: out.CSS}, failMsg)
}

// slotTarget resolves the owned website and the {slot} parameter.
func (a *API) slotTarget(w http.ResponseWriter, r *http.Request) (*models.Website, models.SlotKind, bool) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return nil, "", false
	}
	kind := models.SlotKind(chi.URLParam(r, "slot"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "Type must be header or footer.", nil)
		return nil, "", false
	}
	return site, kind, true
}

// homeSections collects the sections of every page whose name mentions
// "home", in page order.
func (a *API) homeSections(w http.ResponseWriter, site *models.Website) ([]models.Section, bool) {
	pages, err := a.pages.FindHomePages(site.ID)
	if err != nil {
		slog.Error("find home pages failed", "error", err, "website_id", site.ID)
		writeError(w, http.StatusInternalServerError, "Error fetching home pages", err)
		return nil, false
	}
	var out []models.Section
	for _, p := range pages {
		out = append(out, p.Sections...)
	}
	return out, true
}

// storeSlot saves the slot, drops every cached preview of the website and
// answers with the slot.
func (a *API) storeSlot(w http.ResponseWriter, r *http.Request, site *models.Website, kind models.SlotKind, slot models.Slot, failMsg string) {
	if err := a.websites.SetSlot(site.ID, kind, slot); err != nil {
		slog.Error("save slot failed", "error", err, "website_id", site.ID, "slot", kind)
		writeError(w, http.StatusInternalServerError, failMsg, err)
		return
	}
	a.previews.InvalidateWebsite(r.Context(), site.ID)
	slog.Info("slot updated", "website_id", site.ID, "slot", kind)
	writeJSON(w, http.StatusOK, slot)
}
