package loaders

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw file bytes to a string. Valid UTF-8 is used
// as-is (a leading BOM is stripped); anything else is decoded as
// Latin-1, which accepts every byte sequence.
func DecodeText(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}

	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

// NormalizeWhitespace collapses every run of whitespace (spaces, tabs,
// newlines) into a single space and trims the ends. Chunking operates
// on this flattened form so chunk boundaries are independent of the
// source's line layout.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractTitle derives a human-readable title from the content's first
// short non-empty line, falling back to the file name with its
// extension removed and underscores turned into spaces.
func ExtractTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= 200 {
			return line
		}
	}

	name := path
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return strings.ReplaceAll(name, "_", " ")
}
