package forms

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// NormalizeColor converts user-entered hex colors into the lower-case
// "#rrggbb" form emitted by the picker. Invalid input yields fallback.
func NormalizeColor(raw, fallback string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if !isHex(trimmed) {
		return fallback
	}
	switch len(trimmed) {
	case 3:
		var b strings.Builder
		b.WriteByte('#')
		for _, r := range trimmed {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return strings.ToLower(b.String())
	case 6:
		return "#" + strings.ToLower(trimmed)
	default:
		return fallback
	}
}

func isHex(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// SameColor compares two hex colors ignoring case and shorthand.
func SameColor(a, b string) bool {
	na := NormalizeColor(a, "")
	return na != "" && na == NormalizeColor(b, "")
}

// CanonicalizeURL converts user-entered addresses into absolute URLs suitable
// for fetching. Bare hosts get an https scheme.
func CanonicalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed
	}
	if strings.Contains(trimmed, "://") {
		return ""
	}
	candidate := "https://" + strings.TrimPrefix(trimmed, "//")
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" || !strings.Contains(parsed.Hostname(), ".") {
		return ""
	}
	return candidate
}

// FormatCreatedAt renders a gallery timestamp as "January 2nd 2006, 3:04:05 pm".
func FormatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %s %d, %s",
		t.Month().String(),
		ordinal(t.Day()),
		t.Year(),
		t.Format("3:04:05 pm"),
	)
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
