// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"sitebuilder/internal/models"
)

const pageColumns = `id, website_id, name, slug, seo_title, seo_description, sections, created_at, updated_at`

// PageStore handles page persistence. Pages are always addressed through
// their website id; ownership of the website is checked by the caller.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

func scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	p := &models.Page{}
	err := row.Scan(
		&p.ID, &p.WebsiteID, &p.Name, &p.Slug, &p.SEOTitle, &p.SEODescription,
		&p.Sections, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (s *PageStore) queryPages(query string, args ...any) ([]models.Page, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// ListByWebsite returns a website's pages in creation order.
func (s *PageStore) ListByWebsite(websiteID uuid.UUID) ([]models.Page, error) {
	pages, err := s.queryPages(`
		SELECT `+pageColumns+`
		FROM pages WHERE website_id = $1
		ORDER BY created_at ASC
	`, websiteID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// FindHomePages returns the website's pages whose name contains "home",
// case-insensitively. Their styles guide header and footer generation.
func (s *PageStore) FindHomePages(websiteID uuid.UUID) ([]models.Page, error) {
	pages, err := s.queryPages(`
		SELECT `+pageColumns+`
		FROM pages WHERE website_id = $1 AND name ILIKE '%home%'
		ORDER BY created_at ASC
	`, websiteID)
	if err != nil {
		return nil, fmt.Errorf("find home pages: %w", err)
	}
	return pages, nil
}

// Find retrieves a page by id within a website. Returns nil if not found.
func (s *PageStore) Find(websiteID, id uuid.UUID) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRow(`
		SELECT `+pageColumns+`
		FROM pages WHERE id = $1 AND website_id = $2
	`, id, websiteID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a page by slug within a website. Returns nil if not found.
func (s *PageStore) FindBySlug(websiteID uuid.UUID, slug string) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRow(`
		SELECT `+pageColumns+`
		FROM pages WHERE website_id = $1 AND slug = $2
	`, websiteID, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// SlugTaken reports whether another page of the website already uses slug.
// Pass uuid.Nil as excludeID when creating.
func (s *PageStore) SlugTaken(websiteID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pages WHERE website_id = $1 AND slug = $2 AND id <> $3
		)
	`, websiteID, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Create inserts a page with an empty section list.
func (s *PageStore) Create(p *models.Page) (*models.Page, error) {
	created, err := scanPage(s.db.QueryRow(`
		INSERT INTO pages (website_id, name, slug, seo_title, seo_description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+pageColumns,
		p.WebsiteID, p.Name, p.Slug, p.SEOTitle, p.SEODescription))
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return created, nil
}

// Update saves the page's metadata. Sections are left untouched.
func (s *PageStore) Update(p *models.Page) error {
	_, err := s.db.Exec(`
		UPDATE pages
		SET name = $1, slug = $2, seo_title = $3, seo_description = $4, updated_at = NOW()
		WHERE id = $5 AND website_id = $6
	`, p.Name, p.Slug, p.SEOTitle, p.SEODescription, p.ID, p.WebsiteID)
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	return nil
}

// SaveSections overwrites the whole section list of a page. Concurrent
// writers are not detected: the last write wins.
func (s *PageStore) SaveSections(websiteID, id uuid.UUID, list models.Sections) error {
	_, err := s.db.Exec(`
		UPDATE pages SET sections = $1, updated_at = NOW()
		WHERE id = $2 AND website_id = $3
	`, list, id, websiteID)
	if err != nil {
		return fmt.Errorf("save sections: %w", err)
	}
	return nil
}

// Delete removes a page. Returns false when nothing matched.
func (s *PageStore) Delete(websiteID, id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM pages WHERE id = $1 AND website_id = $2`, id, websiteID)
	if err != nil {
		return false, fmt.Errorf("delete page: %w", err)
	}
	return affected(res)
}
