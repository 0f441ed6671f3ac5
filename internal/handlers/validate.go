package handlers

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Validation limits for free-text fields.
const (
	maxNameLen        = 200
	maxContextLen     = 5_000
	maxSlugLen        = 300
	maxSEOTitleLen    = 300
	maxSEODescLen     = 500
	maxCustomFieldLen = 1_000
	maxDescriptionLen = 4_000
	maxEmailLen       = 254
	minPasswordLen    = 8
	maxPasswordLen    = 72 // bcrypt ignores anything longer
)

// strictPolicy strips every tag from plain-text fields.
var strictPolicy = bluemonday.StrictPolicy()

// plainText removes markup from s and trims it. The policy escapes entities
// on output, so they are unescaped once to keep "&" readable.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// validateWebsite checks website form inputs and returns the first error found.
func validateWebsite(name, context string) string {
	if name == "" {
		return "Website name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Website name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(context) > maxContextLen {
		return "Website context is too long (max 5,000 characters)."
	}
	return ""
}

// validatePage checks page form inputs.
func validatePage(name, slug, seoTitle, seoDesc string) string {
	if name == "" {
		return "Page name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Page name is too long (max 200 characters)."
	}
	if slug == "" {
		return "Slug is required."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(seoTitle) > maxSEOTitleLen {
		return "SEO title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(seoDesc) > maxSEODescLen {
		return "SEO description is too long (max 500 characters)."
	}
	return ""
}

// validateCustomization checks the four customization answers.
func validateCustomization(fields ...string) string {
	for _, f := range fields {
		if utf8.RuneCountInString(f) > maxCustomFieldLen {
			return "Customization answers are limited to 1,000 characters each."
		}
	}
	return ""
}

// validateDescription checks the free-form instruction sent to the LLM.
func validateDescription(description string) string {
	if strings.TrimSpace(description) == "" {
		return "Description is required."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 4,000 characters)."
	}
	return ""
}

// validateCredentials checks registration inputs.
func validateCredentials(email, password string) string {
	if email == "" || !strings.Contains(email, "@") {
		return "A valid email address is required."
	}
	if len(email) > maxEmailLen {
		return "Email address is too long."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	if len(password) > maxPasswordLen {
		return "Password is too long (max 72 bytes)."
	}
	return ""
}
