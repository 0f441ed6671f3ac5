// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SlotKind names one of the two singleton generated regions of a website.
type SlotKind string

const (
	SlotHeader SlotKind = "header"
	SlotFooter SlotKind = "footer"
)

// Valid reports whether k is header or footer.
func (k SlotKind) Valid() bool {
	return k == SlotHeader || k == SlotFooter
}

// Customization holds the brand fields that feed every generation prompt.
type Customization struct {
	TargetAudience     string `json:"target_audience"`
	MainGoal           string `json:"main_goal"`
	UniqueSellingPoint string `json:"unique_selling_point"`
	BrandPersonality   string `json:"brand_personality"`
}

// Slot is the generated HTML/CSS of a header or footer.
type Slot struct {
	Content string `json:"content"`
	CSS     string `json:"css"`
}

// Website is a user-owned site. Its pages live in their own table and
// reference the website by id.
type Website struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	Name          string        `json:"name"`
	Context       string        `json:"context"`
	Customization Customization `json:"customization"`
	Header        Slot          `json:"header"`
	Footer        Slot          `json:"footer"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Slot returns the header or footer slot. Unknown kinds return an empty slot.
func (w *Website) Slot(kind SlotKind) Slot {
	switch kind {
	case SlotHeader:
		return w.Header
	case SlotFooter:
		return w.Footer
	}
	return Slot{}
}

// SetSlot overwrites the header or footer slot.
func (w *Website) SetSlot(kind SlotKind, s Slot) {
	switch kind {
	case SlotHeader:
		w.Header = s
	case SlotFooter:
		w.Footer = s
	}
}
