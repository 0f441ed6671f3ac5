// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt builds the LLM prompts for section, header and footer
// generation. Each builder returns a single opaque string; the ai package
// never looks inside it.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"sitebuilder/internal/models"
)

// CSSFramework is the framework every generated fragment targets.
const CSSFramework = "Bootstrap 5 Latest"

const jsonInstruction = "Return the result as a JSON object with 'content' - section html - and 'css' - section css - fields. " +
	"Respond with the JSON object only, without code fences or commentary."

func customization(c models.Customization) string {
	return fmt.Sprintf("Target Audience: %s\nMain Goal: %s\nUnique Selling Point: %s\nBrand Personality: %s\nCSS Framework: %s",
		c.TargetAudience, c.MainGoal, c.UniqueSellingPoint, c.BrandPersonality, CSSFramework)
}

func scoping(ref string) string {
	return fmt.Sprintf("Use the section-reference '#%[1]s' as the parent for all styled elements - which are children of the section element. "+
		"Ensure that all CSS selectors - which are children of the section - start with #%[1]s; "+
		"and the section element itself should have the id %[1]s and the CSS selector #%[1]s.", ref)
}

// existingSections renders the page's current sections as JSON. A missing
// page renders as an empty string.
func existingSections(list []models.Section) string {
	if list == nil {
		return ""
	}
	b, err := json.Marshal(list)
	if err != nil {
		return ""
	}
	return string(b)
}

// SectionAdd asks for a new section scoped to ref.
func SectionAdd(w *models.Website, existing []models.Section, ref, description string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Website Context:* %q.\n\n", w.Context)
	fmt.Fprintf(&sb, "*Existing Page Content:* %q\n\n", existingSections(existing))
	fmt.Fprintf(&sb, "*Website Customization:*\n%s\n\n", customization(w.Customization))
	fmt.Fprintf(&sb, "Given the website context, existing page content, and customization information, "+
		"generate HTML for a new website section based on this description: %s. "+
		"The HTML should align with the website's context, design considerations, and customization details. "+
		"Also, provide appropriate CSS for this section. ", description)
	sb.WriteString(scoping(ref))
	sb.WriteString(" ")
	sb.WriteString(jsonInstruction)
	return sb.String()
}

// SectionEdit asks for a revision of an existing section, keeping its ref.
func SectionEdit(w *models.Website, current models.Section, description string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Website Context:* %q.\n\n", w.Context)
	fmt.Fprintf(&sb, "*Website Customization:*\n%s\n\n", customization(w.Customization))
	fmt.Fprintf(&sb, "*Current Section Content:* %q\n\n", current.Content)
	fmt.Fprintf(&sb, "*Current Section CSS:* %q\n\n", current.CSS)
	fmt.Fprintf(&sb, "Edit the current section content and CSS based on this description: %s. "+
		"The HTML and CSS should align with the website's context, design considerations, and customization information. ", description)
	sb.WriteString(scoping(current.Reference))
	sb.WriteString(" ")
	sb.WriteString(jsonInstruction)
	return sb.String()
}

// SlotGenerate asks for a fresh header or footer. homeSections gives the
// model the look of the home page so the slot matches it.
func SlotGenerate(w *models.Website, kind models.SlotKind, homeSections []models.Section) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate HTML and CSS for a %s for a website with the following context: %q.\n", kind, w.Context)
	fmt.Fprintf(&sb, "Customization details:\n%s\n", customization(w.Customization))
	writeHomeStyle(&sb, homeSections)
	fmt.Fprintf(&sb, "Return the result as a JSON object with 'content' (%s HTML) and 'css' fields. "+
		"Respond with the JSON object only, without code fences or commentary.", kind)
	return sb.String()
}

// SlotEdit asks for a revision of the current header or footer.
func SlotEdit(w *models.Website, kind models.SlotKind, homeSections []models.Section, description string) string {
	current := w.Slot(kind)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Edit the %s for a website with the following context: %q.\n", kind, w.Context)
	fmt.Fprintf(&sb, "Current %s HTML: %q.\n", kind, current.Content)
	fmt.Fprintf(&sb, "Current %s CSS: %q.\n", kind, current.CSS)
	fmt.Fprintf(&sb, "Customization details:\n%s\n", customization(w.Customization))
	writeHomeStyle(&sb, homeSections)
	fmt.Fprintf(&sb, "Edit based on this description: %s.\n", description)
	fmt.Fprintf(&sb, "Return the result as a JSON object with 'content' (%s HTML) and 'css' fields. "+
		"Respond with the JSON object only, without code fences or commentary.", kind)
	return sb.String()
}

func writeHomeStyle(sb *strings.Builder, home []models.Section) {
	if len(home) == 0 {
		return
	}
	css := make([]string, 0, len(home))
	for _, s := range home {
		if s.CSS != "" {
			css = append(css, s.CSS)
		}
	}
	if len(css) == 0 {
		return
	}
	fmt.Fprintf(sb, "Match the visual style of the home page, whose CSS is: %q.\n", strings.Join(css, "\n"))
}
