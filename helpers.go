package folio

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// newPostWindow is how long a post shows the "New" badge after creation.
const newPostWindow = 30 * 24 * time.Hour

// previewLength is the rune budget of a derived content preview.
const previewLength = 160

// Slugify converts a title to a URL-safe slug: lowercase ASCII letters and
// digits separated by single hyphens, never leading or trailing.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// IsNew reports whether p carries the "New" badge at time now.
func IsNew(p BlogPost, now time.Time) bool {
	if strings.EqualFold(strings.TrimSpace(p.Label), "new") {
		return true
	}
	age := now.Sub(p.CreatedAt)
	return age >= 0 && age < newPostWindow
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}
