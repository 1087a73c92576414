// SPDX-License-Identifier: MIT

// Package sanitize turns arbitrary media titles into strings safe for use in
// Content-Disposition filenames.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	maxLength   = 100
	defaultName = "video"
)

// reserved characters that are illegal in filenames on common filesystems.
const reserved = `/\:*?"<>|`

// Filename produces an ASCII-safe base name from an arbitrary title. Accented
// letters are folded to their base letter via NFKD decomposition; any other
// non-ASCII rune, whitespace run or reserved character becomes a single
// underscore. The result is at most 100 characters and never empty. The
// function is idempotent: Filename(Filename(s)) == Filename(s).
func Filename(title string) string {
	decomposed := norm.NFKD.String(title)

	var b strings.Builder
	b.Grow(len(decomposed))
	pendingSep := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition, drop it
		case r < 0x21 || r == 0x7f || unicode.IsSpace(r):
			pendingSep = true
		case r == '_' || r > unicode.MaxASCII || strings.ContainsRune(reserved, r):
			pendingSep = true
		default:
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}

	name := strings.Trim(b.String(), "._")
	if len(name) > maxLength {
		name = strings.TrimRight(name[:maxLength], "._")
	}
	if name == "" {
		return defaultName
	}
	return name
}
