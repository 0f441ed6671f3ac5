// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"sitebuilder/internal/models"
	"sitebuilder/internal/slug"
)

const slugTakenMessage = "This slug already exists. Please choose a different one."

type pageRequest struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	SEOTitle       string `json:"seo_title"`
	SEODescription string `json:"seo_description"`
}

// normalize sanitizes the fields and derives the slug from the name when
// none was given.
func (in *pageRequest) normalize() {
	in.Name = plainText(in.Name)
	in.SEOTitle = plainText(in.SEOTitle)
	in.SEODescription = plainText(in.SEODescription)
	in.Slug = slug.ForPage(in.Slug, in.Name)
}

// ListPages returns the pages of an owned website in creation order.
func (a *API) ListPages(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return
	}
	pages, err := a.pages.ListByWebsite(site.ID)
	if err != nil {
		slog.Error("list pages failed", "error", err, "website_id", site.ID)
		writeError(w, http.StatusInternalServerError, "Error fetching pages", nil)
		return
	}
	if pages == nil {
		pages = []models.Page{}
	}
	writeJSON(w, http.StatusOK, pages)
}

// CreatePage adds a page with an empty section list.
func (a *API) CreatePage(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return
	}
	var in pageRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	in.normalize()
	if msg := validatePage(in.Name, in.Slug, in.SEOTitle, in.SEODescription); msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}
	if !a.slugFree(w, site.ID, in.Slug, uuid.Nil) {
		return
	}

	page, err := a.pages.Create(&models.Page{
		WebsiteID:      site.ID,
		Name:           in.Name,
		Slug:           in.Slug,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
	})
	if err != nil {
		slog.Error("create page failed", "error", err, "website_id", site.ID)
		writeError(w, http.StatusInternalServerError, "Error creating page", nil)
		return
	}
	slog.Info("page created", "page_id", page.ID, "website_id", site.ID, "slug", page.Slug)
	writeJSON(w, http.StatusCreated, page)
}

// GetPage returns a page with its sections.
func (a *API) GetPage(w http.ResponseWriter, r *http.Request) {
	_, page, ok := a.ownedPage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// UpdatePage changes the page metadata. Sections are left alone.
func (a *API) UpdatePage(w http.ResponseWriter, r *http.Request) {
	site, page, ok := a.ownedPage(w, r)
	if !ok {
		return
	}
	var in pageRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	in.normalize()
	if msg := validatePage(in.Name, in.Slug, in.SEOTitle, in.SEODescription); msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}
	if !a.slugFree(w, site.ID, in.Slug, page.ID) {
		return
	}

	page.Name, page.Slug = in.Name, in.Slug
	page.SEOTitle, page.SEODescription = in.SEOTitle, in.SEODescription
	if err := a.pages.Update(page); err != nil {
		slog.Error("update page failed", "error", err, "page_id", page.ID)
		writeError(w, http.StatusInternalServerError, "Error updating page", nil)
		return
	}
	a.previews.InvalidatePage(r.Context(), site.ID, page.ID)
	writeJSON(w, http.StatusOK, page)
}

// DeletePage removes a page.
func (a *API) DeletePage(w http.ResponseWriter, r *http.Request) {
	site, page, ok := a.ownedPage(w, r)
	if !ok {
		return
	}
	deleted, err := a.pages.Delete(site.ID, page.ID)
	if err != nil {
		slog.Error("delete page failed", "error", err, "page_id", page.ID)
		writeError(w, http.StatusInternalServerError, "Error deleting page", nil)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Page not found", nil)
		return
	}
	a.previews.InvalidatePage(r.Context(), site.ID, page.ID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Page deleted successfully"})
}

// slugFree writes a 400 when another page of the website uses s.
func (a *API) slugFree(w http.ResponseWriter, websiteID uuid.UUID, s string, exclude uuid.UUID) bool {
	taken, err := a.pages.SlugTaken(websiteID, s, exclude)
	if err != nil {
		slog.Error("slug check failed", "error", err, "website_id", websiteID)
		writeError(w, http.StatusInternalServerError, "Error checking slug", nil)
		return false
	}
	if taken {
		writeError(w, http.StatusBadRequest, slugTakenMessage, nil)
		return false
	}
	return true
}
