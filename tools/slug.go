package tools

import (
	"strings"

	"github.com/gosimple/slug"
)

// Slugify returns explicit when given, otherwise a slug derived from the title.
func Slugify(explicit, title string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return slug.Make(s)
	}
	return slug.Make(title)
}

func IsSlug(s string) bool {
	return slug.IsSlug(s)
}
