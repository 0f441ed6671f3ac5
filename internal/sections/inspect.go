package sections

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RootID returns the id attribute of the first element in an HTML fragment,
// or "" when the fragment has no element or the root has no id.
func RootID(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	root := doc.Find("body").Children().First()
	if root.Length() == 0 {
		return ""
	}
	id, _ := root.Attr("id")
	return id
}

// CheckScoping logs a warning when generated markup does not carry its
// reference as the root id, or when the stylesheet never mentions it. The
// result is never rejected; the scoping rules are only asked for in the prompt.
func CheckScoping(ref, content, css string) bool {
	ok := true
	if id := RootID(content); id != ref {
		slog.Warn("generated section root id does not match reference", "reference", ref, "root_id", id)
		ok = false
	}
	if strings.TrimSpace(css) != "" && !strings.Contains(css, "#"+ref) {
		slog.Warn("generated section css is not scoped to reference", "reference", ref)
		ok = false
	}
	return ok
}
