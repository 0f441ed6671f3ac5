// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitebuilder/internal/models"
)

// Bootstrap 5 assets referenced by every preview, matching the framework
// named in the prompts.
const (
	bootstrapCSS = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"
	bootstrapJS  = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"
)

// previewCacheHeader reports whether the preview came from the cache.
const previewCacheHeader = "X-Preview-Cache"

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- with .Description}}
<meta name="description" content="{{.}}">
{{- end}}
<link rel="stylesheet" href="{{.BootstrapCSS}}">
<style>
{{.CSS}}
</style>
</head>
<body>
{{.Header}}
<main>
{{- range .Sections}}
{{.}}
{{- end}}
</main>
{{.Footer}}
<script src="{{.BootstrapJS}}"></script>
</body>
</html>
`))

// previewData feeds previewTemplate. Generated markup and styles belong to
// the website owner and are emitted verbatim.
type previewData struct {
	Title        string
	Description  string
	BootstrapCSS string
	BootstrapJS  string
	CSS          template.CSS
	Header       template.HTML
	Sections     []template.HTML
	Footer       template.HTML
}

// Preview serves a page as a standalone HTML document: header, sections in
// order, footer, and all their stylesheets. {pageRef} is a page id or a
// slug; the home slug "/" is requested as %2F.
func (a *API) Preview(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedWebsite(w, r)
	if !ok {
		return
	}
	ref, err := url.PathUnescape(chi.URLParam(r, "pageRef"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Page not found", nil)
		return
	}
	page, err := a.previewPage(site.ID, ref)
	if err != nil {
		slog.Error("find preview page failed", "error", err, "website_id", site.ID, "page", ref)
		writeError(w, http.StatusInternalServerError, "Error rendering preview", nil)
		return
	}
	if page == nil {
		writeError(w, http.StatusNotFound, "Page not found", nil)
		return
	}

	if doc, hit := a.previews.Get(r.Context(), site.ID, page.ID); hit {
		writeHTML(w, doc, "HIT")
		return
	}

	doc, err := renderPreview(site, page)
	if err != nil {
		slog.Error("render preview failed", "error", err, "page_id", page.ID)
		writeError(w, http.StatusInternalServerError, "Error rendering preview", nil)
		return
	}
	a.previews.Set(r.Context(), site.ID, page.ID, doc)
	writeHTML(w, doc, "MISS")
}

// previewPage looks the page up by id first, then by slug.
func (a *API) previewPage(websiteID uuid.UUID, ref string) (*models.Page, error) {
	if id, err := uuid.Parse(ref); err == nil {
		page, err := a.pages.Find(websiteID, id)
		if err != nil || page != nil {
			return page, err
		}
	}
	return a.pages.FindBySlug(websiteID, ref)
}

// renderPreview assembles the preview document.
func renderPreview(site *models.Website, page *models.Page) ([]byte, error) {
	css := make([]string, 0, len(page.Sections)+2)
	if site.Header.CSS != "" {
		css = append(css, site.Header.CSS)
	}
	data := previewData{
		Title:        page.SEOTitle,
		Description:  page.SEODescription,
		BootstrapCSS: bootstrapCSS,
		BootstrapJS:  bootstrapJS,
		Header:       template.HTML(site.Header.Content),
		Footer:       template.HTML(site.Footer.Content),
		Sections:     make([]template.HTML, 0, len(page.Sections)),
	}
	if data.Title == "" {
		data.Title = page.Name + " | " + site.Name
	}
	for _, s := range page.Sections {
		data.Sections = append(data.Sections, template.HTML(s.Content))
		if s.CSS != "" {
			css = append(css, s.CSS)
		}
	}
	if site.Footer.CSS != "" {
		css = append(css, site.Footer.CSS)
	}
	data.CSS = template.CSS(strings.Join(css, "\n"))

	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHTML(w http.ResponseWriter, doc []byte, cacheState string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(previewCacheHeader, cacheState)
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
