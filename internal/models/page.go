// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Section is the smallest addressable content unit of a page. Reference is
// also embedded in the section's own HTML id and CSS selectors.
type Section struct {
	Reference   string `json:"section_reference"`
	Content     string `json:"content"`
	CSS         string `json:"css"`
	LogicalName string `json:"logical_name,omitempty"`
}

// Sections is the ordered section list of a page, stored as a JSONB array.
// Array order is document order.
type Sections []Section

// Value implements driver.Valuer. A nil list is stored as an empty array.
func (s Sections) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]Section(s))
	if err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB columns.
func (s *Sections) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Sections{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan sections: unsupported type %T", src)
	}

	var out []Section
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan sections: %w", err)
	}
	if out == nil {
		out = []Section{}
	}
	*s = out
	return nil
}

// Find returns the section with the given reference, if any.
func (s Sections) Find(ref string) (Section, bool) {
	for _, sec := range s {
		if sec.Reference == ref {
			return sec, true
		}
	}
	return Section{}, false
}

// Page belongs to exactly one website and owns its sections.
type Page struct {
	ID             uuid.UUID `json:"id"`
	WebsiteID      uuid.UUID `json:"website_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	SEOTitle       string    `json:"seo_title"`
	SEODescription string    `json:"seo_description"`
	Sections       Sections  `json:"sections"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
