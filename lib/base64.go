package lib

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxBase64Length is the hard cap on a base64 payload headed for persistence.
// Payloads above this are rejected outright; the exact boundary is accepted.
const MaxBase64Length = 50 * 1024

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// ExtractBase64 splits a data URL into its MIME type and raw base64 payload.
// A bare payload without the data URL prefix is returned as-is with an empty
// MIME type.
func ExtractBase64(dataURL string) (mimeType, payload string) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", dataURL
	}

	rest := strings.TrimPrefix(dataURL, "data:")
	idx := strings.Index(rest, ",")
	if idx < 0 {
		return "", dataURL
	}

	meta := rest[:idx]
	payload = rest[idx+1:]
	mimeType = strings.TrimSuffix(meta, ";base64")
	return mimeType, payload
}

// SanitizeBase64 strips the data URL prefix, whitespace and any character
// outside the base64 alphabet, then pads the result to a multiple of four.
func SanitizeBase64(raw string) string {
	_, payload := ExtractBase64(raw)

	var sb strings.Builder
	sb.Grow(len(payload))
	for _, r := range payload {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '+' || r == '/' || r == '=':
			sb.WriteRune(r)
		}
	}

	cleaned := sb.String()

	// Padding belongs at the end only; anything mid-string was corruption
	cleaned = strings.ReplaceAll(cleaned[:len(cleaned)-countTrailing(cleaned, '=')], "=", "") +
		strings.Repeat("=", countTrailing(cleaned, '='))

	if rem := len(cleaned) % 4; rem != 0 {
		cleaned += strings.Repeat("=", 4-rem)
	}

	return cleaned
}

func countTrailing(s string, c byte) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == c; i-- {
		n++
	}
	if n > 2 {
		n = 2
	}
	return n
}

// ValidateBase64 sanitizes a payload and enforces the alphabet and size
// contract. It returns the cleaned payload ready for storage.
func ValidateBase64(raw string) (string, error) {
	cleaned := SanitizeBase64(raw)

	if cleaned == "" || strings.Trim(cleaned, "=") == "" {
		return "", NewValidationError("image", "base64 payload is empty")
	}

	if !base64Pattern.MatchString(cleaned) {
		return "", NewValidationError("image", "base64 payload contains invalid characters")
	}

	if len(cleaned) > MaxBase64Length {
		return "", NewValidationError("image", fmt.Sprintf(
			"base64 payload is %d characters, exceeds the %d character limit", len(cleaned), MaxBase64Length))
	}

	return cleaned, nil
}

// IsExternalURL reports whether a stored image reference is a fully
// qualified http(s) URL. Everything else headed for persistence has to be
// an inline data URL; transient references such as blob: object URLs must
// never reach a row.
func IsExternalURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// BuildDataURL re-wraps a validated payload into a data URL for clients
func BuildDataURL(mimeType, payload string) string {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, payload)
}
