// Package formats contains stateless, defensive mappers from engine
// format handles to Universal Schema format blocks. Every accessor read
// is individually guarded, so a missing or throwing property degrades to
// a default without affecting its siblings. All functions are safe for
// concurrent use and have no side effects.
package formats

import (
	"strings"
)

// DefaultColor is the fallback for unrecoverable color extraction.
const DefaultColor = "#000000"

// NormalizeColor reduces an engine-reported color string to the six hex
// digit "#RRGGBB" form. Accepted inputs: "#RRGGBB", "RRGGBB", "#RGB",
// "AARRGGBB" (alpha dropped). Anything else falls back to DefaultColor.
func NormalizeColor(raw string) string {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if s == "" {
		return DefaultColor
	}
	s = strings.ToUpper(s)
	for _, r := range s {
		if !isHex(r) {
			return DefaultColor
		}
	}
	switch len(s) {
	case 6:
		return "#" + s
	case 8:
		return "#" + s[2:]
	case 3:
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return "#" + b.String()
	}
	return DefaultColor
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
}
