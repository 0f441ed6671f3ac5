// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"sitebuilder/internal/models"
	"sitebuilder/internal/prompt"
	"sitebuilder/internal/sections"
)

type sectionRequest struct {
	Description string `json:"description"`
	LogicalName string `json:"logical_name"`
}

type reorderRequest struct {
	Order []string `json:"order"`
}

// AddSection generates a new section from a description and appends it to
// the page.
func (a *API) AddSection(w http.ResponseWriter, r *http.Request) {
	site, page, ok := a.ownedPage(w, r)
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
	logicalName := plainText(in.LogicalName)
	if utf8.RuneCountInString(logicalName) > maxNameLen {
		writeError(w, http.StatusBadRequest, "Section name is too long (max 200 characters).", nil)
		return
	}
	user, ok := a.llmUser(w, r)
	if !ok {
		return
	}

	ref := sections.NewReference(page.Sections, a.now())
	out, err := a.generate(r.Context(), user, prompt.SectionAdd(site, page.Sections, ref, in.Description))
	if err != nil {
		writeGenerationError(w, "Error adding section", err)
		return
	}
	sections.CheckScoping(ref, out.Content, out.CSS)

	list := sections.Insert(page.Sections, ref, out.Content, out.CSS)
	list[len(list)-1].LogicalName = logicalName
	if !a.saveSections(w, r, site, page, list, "Error adding section") {
		return
	}
	slog.Info("section added", "page_id", page.ID, "reference", ref)
	writeJSON(w, http.StatusOK, list[len(list)-1])
}

// EditSection regenerates an existing section from a description. The
// reference and position are kept.
func (a *API) EditSection(w http.ResponseWriter, r *http.Request) {
	site, page, ok := a.ownedPage(w, r)
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
	ref := chi.URLParam(r, "ref")
	current, found := page.Sections.Find(ref)
	if !found {
		writeError(w, http.StatusNotFound, "Section not found", nil)
		return
	}
	user, ok := a.llmUser(w, r)
	if !ok {
		return
	}

	out, err := a.generate(r.Context(), user, prompt.SectionEdit(site, current, in.Description))
	if err != nil {
		writeGenerationError(w, "Error editing section", err)
		return
	}
	sections.CheckScoping(ref, out.Content, out.CSS)

	list, err := sections.Replace(page.Sections, ref, out.Content, out.CSS)
	if err != nil {
		writeError(w, http.StatusNotFound, "Section not found", nil)
		return
	}
	if !a.saveSections(w, r, site, page, list, "Error editing section") {
		return
	}
	updated, _ := models.Sections(list).Find(ref)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSection removes a section. Deleting a reference that is not on the
// page succeeds without changing anything.
func (a *API) DeleteSection(w http.ResponseWriter, r *http.Request) {
	site, page, ok := a.ownedPage(w, r)
	if !ok {
		return
	}
	ref := chi.URLParam(r, "ref")
	list := sections.Delete(page.Sections, ref)
	if len(list) != len(page.Sections) {
		if !a.saveSections(w, r, site, page, list, "Error deleting section") {
			return
		}
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Section deleted successfully"})
}

// CopySection appends a duplicate of a section under a fresh reference.
func (a *API) CopySection(w http.ResponseWriter, r *http.Request) {
	site, page, ok := a.ownedPage(w, r)
	if !ok {
		return
	}
	ref := chi.URLParam(r, "ref")
	newRef := sections.NewReference(page.Sections, a.now())

	list, dup, err := sections.Duplicate(page.Sections, ref, newRef)
	if errors.Is(err, sections.ErrSectionNotFound) {
		writeError(w, http.StatusNotFound, "Section not found", nil)
		return
	}
	if err != nil {
		slog.Error("copy section failed", "error", err, "page_id", page.ID)
		writeError(w, http.StatusInternalServerError, "Error copying section", err)
		return
	}
	if !a.saveSections(w, r, site, page, list, "Error copying section") {
		return
	}
	writeJSON(w, http.StatusOK, dup)
}

// ReorderSections rearranges the page to the given reference order.
// Unknown references are ignored and sections left out of the order are
// removed from the page.
func (a *API) ReorderSections(w http.ResponseWriter, r *http.Request) {
	site, page, ok := a.ownedPage(w, r)
	if !ok {
		return
	}
	var in reorderRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Order == nil {
		writeError(w, http.StatusBadRequest, "Order must be a list of section references.", nil)
		return
	}

	if dropped := sections.Dropped(page.Sections, in.Order); len(dropped) > 0 {
		slog.Warn("reorder drops sections", "page_id", page.ID, "dropped", strings.Join(dropped, ","))
	}
	list := sections.Reorder(page.Sections, in.Order)
	if !a.saveSections(w, r, site, page, list, "Error reordering sections") {
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Section order updated successfully"})
}

// saveSections persists list as the page's sections and drops the cached
// preview. Concurrent writers race; the last save wins.
func (a *API) saveSections(w http.ResponseWriter, r *http.Request, site *models.Website, page *models.Page, list []models.Section, failMsg string) bool {
	if err := a.pages.SaveSections(site.ID, page.ID, list); err != nil {
		slog.Error("save sections failed", "error", err, "page_id", page.ID)
		writeError(w, http.StatusInternalServerError, failMsg, err)
		return false
	}
	page.Sections = list
	a.previews.InvalidatePage(r.Context(), site.ID, page.ID)
	return true
}
