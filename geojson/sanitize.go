package geojson

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxNameLength bounds sanitized names so derived file names stay portable.
const maxNameLength = 100

// reservedNames are device names Windows refuses as file stems regardless of
// extension.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeName makes a layer name safe for use as a file stem. Accented
// letters are folded to their base form, anything outside a conservative
// ASCII set becomes an underscore, and names that would collide with
// reserved Windows device names are wrapped in underscores. An empty result
// falls back to "layer".
func SanitizeName(name string) string {
	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '-' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	s := strings.Trim(b.String(), " .")
	if s == "" {
		return "layer"
	}
	if reservedNames[strings.ToUpper(s)] {
		s = "_" + s + "_"
	}
	if len(s) > maxNameLength {
		s = s[:maxNameLength]
	}
	return s
}
