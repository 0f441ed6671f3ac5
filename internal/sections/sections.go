// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sections applies LLM results and user edits to a page's ordered
// section list. Every function returns a fresh slice; the input is never
// modified.
package sections

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sitebuilder/internal/models"
)

// ErrSectionNotFound is returned when a reference does not match any section.
var ErrSectionNotFound = errors.New("section not found")

// ReferencePrefix starts every generated section reference.
const ReferencePrefix = "section-"

// NewReference mints a time-based reference (section-<unix millis>). If the
// token already exists in list it is bumped one millisecond at a time until
// it is unique within the page.
func NewReference(list []models.Section, now time.Time) string {
	taken := make(map[string]struct{}, len(list))
	for _, s := range list {
		taken[s.Reference] = struct{}{}
	}

	ms := now.UnixMilli()
	for {
		ref := fmt.Sprintf("%s%d", ReferencePrefix, ms)
		if _, ok := taken[ref]; !ok {
			return ref
		}
		ms++
	}
}

// Insert appends a new section.
func Insert(list []models.Section, ref, content, css string) []models.Section {
	out := clone(list, 1)
	return append(out, models.Section{Reference: ref, Content: content, CSS: css})
}

// Replace overwrites content and stylesheet of the section matching ref,
// keeping its reference, logical name and position.
func Replace(list []models.Section, ref, content, css string) ([]models.Section, error) {
	i := index(list, ref)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, ref)
	}
	out := clone(list, 0)
	out[i].Content = content
	out[i].CSS = css
	return out, nil
}

// Delete removes the section matching ref. An absent reference is not an
// error; the list comes back unchanged.
func Delete(list []models.Section, ref string) []models.Section {
	out := make([]models.Section, 0, len(list))
	for _, s := range list {
		if s.Reference != ref {
			out = append(out, s)
		}
	}
	return out
}

// Duplicate appends a copy of the section matching ref under newRef. Every
// literal occurrence of ref in the copy's content and stylesheet is replaced
// with newRef. The replacement is textual, so unrelated text that happens to
// contain ref is rewritten too.
func Duplicate(list []models.Section, ref, newRef string) ([]models.Section, models.Section, error) {
	i := index(list, ref)
	if i < 0 {
		return nil, models.Section{}, fmt.Errorf("%w: %s", ErrSectionNotFound, ref)
	}
	src := list[i]
	dup := models.Section{
		Reference:   newRef,
		Content:     strings.ReplaceAll(src.Content, ref, newRef),
		CSS:         strings.ReplaceAll(src.CSS, ref, newRef),
		LogicalName: src.LogicalName,
	}
	return append(clone(list, 1), dup), dup, nil
}

// Reorder rebuilds the list in the order given. The result is exactly the
// intersection of order and list: unknown references are skipped and
// sections missing from order are dropped. Repeated references in order
// only place their section once.
func Reorder(list []models.Section, order []string) []models.Section {
	byRef := make(map[string]models.Section, len(list))
	for _, s := range list {
		if _, dup := byRef[s.Reference]; !dup {
			byRef[s.Reference] = s
		}
	}

	out := make([]models.Section, 0, len(order))
	for _, ref := range order {
		s, ok := byRef[ref]
		if !ok {
			continue
		}
		out = append(out, s)
		delete(byRef, ref)
	}
	return out
}

// Dropped lists the references of list that Reorder(list, order) would drop.
func Dropped(list []models.Section, order []string) []string {
	keep := make(map[string]struct{}, len(order))
	for _, ref := range order {
		keep[ref] = struct{}{}
	}
	var dropped []string
	for _, s := range list {
		if _, ok := keep[s.Reference]; !ok {
			dropped = append(dropped, s.Reference)
		}
	}
	return dropped
}

func index(list []models.Section, ref string) int {
	for i, s := range list {
		if s.Reference == ref {
			return i
		}
	}
	return -1
}

func clone(list []models.Section, extra int) []models.Section {
	out := make([]models.Section, len(list), len(list)+extra)
	copy(out, list)
	return out
}
