package lib

import "strings"

// Slugify converts a display name into a URL-safe kebab-case slug.
// Apostrophes vanish instead of becoming separators, so "Men's Wear"
// becomes "mens-wear".
func Slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var sb strings.Builder
	lastDash := true // suppress leading dashes
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case r == '\'' || r == '’':
			// drop apostrophes entirely
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
