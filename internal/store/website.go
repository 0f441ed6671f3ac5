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

const websiteColumns = `id, user_id, name, context,
	target_audience, main_goal, unique_selling_point, brand_personality,
	header_content, header_css, footer_content, footer_css,
	created_at, updated_at`

// WebsiteStore handles website persistence. Every lookup is scoped to the
// owning user so another tenant's website reads as "not found".
type WebsiteStore struct {
	db *sql.DB
}

// NewWebsiteStore creates a new WebsiteStore.
func NewWebsiteStore(db *sql.DB) *WebsiteStore {
	return &WebsiteStore{db: db}
}

func scanWebsite(row interface{ Scan(...any) error }) (*models.Website, error) {
	w := &models.Website{}
	c := &w.Customization
	err := row.Scan(
		&w.ID, &w.UserID, &w.Name, &w.Context,
		&c.TargetAudience, &c.MainGoal, &c.UniqueSellingPoint, &c.BrandPersonality,
		&w.Header.Content, &w.Header.CSS, &w.Footer.Content, &w.Footer.CSS,
		&w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

// ListByUser returns the user's websites, newest first.
func (s *WebsiteStore) ListByUser(userID uuid.UUID) ([]models.Website, error) {
	rows, err := s.db.Query(`
		SELECT `+websiteColumns+`
		FROM websites WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	defer rows.Close()

	var sites []models.Website
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan website: %w", err)
		}
		sites = append(sites, *w)
	}
	return sites, rows.Err()
}

// FindOwned retrieves a website owned by userID. Returns nil if it does not
// exist or belongs to someone else.
func (s *WebsiteStore) FindOwned(id, userID uuid.UUID) (*models.Website, error) {
	w, err := scanWebsite(s.db.QueryRow(`
		SELECT `+websiteColumns+`
		FROM websites WHERE id = $1 AND user_id = $2
	`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find website: %w", err)
	}
	return w, nil
}

// Create inserts a new website for userID.
func (s *WebsiteStore) Create(userID uuid.UUID, name, context string) (*models.Website, error) {
	w, err := scanWebsite(s.db.QueryRow(`
		INSERT INTO websites (user_id, name, context)
		VALUES ($1, $2, $3)
		RETURNING `+websiteColumns,
		userID, name, context))
	if err != nil {
		return nil, fmt.Errorf("create website: %w", err)
	}
	return w, nil
}

// Update changes the name and context of an owned website. Returns false
// when no owned website matched.
func (s *WebsiteStore) Update(id, userID uuid.UUID, name, context string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE websites SET name = $1, context = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
	`, name, context, id, userID)
	if err != nil {
		return false, fmt.Errorf("update website: %w", err)
	}
	return affected(res)
}

// UpdateCustomization replaces the brand fields of an owned website.
func (s *WebsiteStore) UpdateCustomization(id, userID uuid.UUID, c models.Customization) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE websites
		SET target_audience = $1, main_goal = $2, unique_selling_point = $3,
		    brand_personality = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
	`, c.TargetAudience, c.MainGoal, c.UniqueSellingPoint, c.BrandPersonality, id, userID)
	if err != nil {
		return false, fmt.Errorf("update customization: %w", err)
	}
	return affected(res)
}

// SetSlot overwrites the header or footer of a website.
func (s *WebsiteStore) SetSlot(id uuid.UUID, kind models.SlotKind, slot models.Slot) error {
	var query string
	switch kind {
	case models.SlotHeader:
		query = `UPDATE websites SET header_content = $1, header_css = $2, updated_at = NOW() WHERE id = $3`
	case models.SlotFooter:
		query = `UPDATE websites SET footer_content = $1, footer_css = $2, updated_at = NOW() WHERE id = $3`
	default:
		return fmt.Errorf("set slot: unknown slot %q", kind)
	}
	if _, err := s.db.Exec(query, slot.Content, slot.CSS, id); err != nil {
		return fmt.Errorf("set %s: %w", kind, err)
	}
	return nil
}

// Delete removes an owned website and, by cascade, its pages.
func (s *WebsiteStore) Delete(id, userID uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM websites WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete website: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
