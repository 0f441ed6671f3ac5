// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns page names into the URL paths pages are served under.
package slug

import (
	"regexp"
	"strings"
)

// Home is the slug reserved for a website's home page.
const Home = "/"

var (
	apostrophes = strings.NewReplacer("'", "", "’", "")
	// separators matches every run of characters outside [a-z0-9].
	separators = regexp.MustCompile(`[^a-z0-9]+`)
)

// Generate lowercases s and joins its alphanumeric runs with single hyphens.
// Apostrophes vanish rather than split words, so "Baker's Corner / Cluj"
// becomes "bakers-corner-cluj". Non-ASCII letters are dropped.
func Generate(s string) string {
	s = apostrophes.Replace(strings.ToLower(s))
	return strings.Trim(separators.ReplaceAllString(s, "-"), "-")
}

// ForPage returns the slug a page is stored under. An explicit "/" marks
// the home page and is kept as is; an empty slug is derived from the page
// name. The result is "" when nothing usable remains.
func ForPage(requested, name string) string {
	requested = strings.TrimSpace(requested)
	switch requested {
	case Home:
		return Home
	case "":
		requested = name
	}
	return Generate(requested)
}
