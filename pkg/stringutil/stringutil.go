// Package stringutil holds small string transforms shared by the
// compiler and CLI: lock-file naming, identifier slugs, and display
// truncation.
package stringutil

import (
	"strings"
	"unicode"
)

// SourceToLockFile maps a workflow source path to its compiled lock-file
// path: "ci.yml" and "ci.yaml" both become "ci.lock.yml".
func SourceToLockFile(sourcePath string) string {
	base := sourcePath
	switch {
	case strings.HasSuffix(base, ".yaml"):
		base = strings.TrimSuffix(base, ".yaml")
	case strings.HasSuffix(base, ".yml"):
		base = strings.TrimSuffix(base, ".yml")
	}
	return base + ".lock.yml"
}

// IsLockFile reports whether path names a compiled lock file.
func IsLockFile(path string) bool {
	return strings.HasSuffix(path, ".lock.yml")
}

// Slugify lowers a string into an identifier-safe slug: runs of
// non-alphanumeric characters collapse to single dashes, with no leading
// or trailing dash.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Truncate shortens s to max runes, appending "..." when it was cut.
// Values of max below 4 return the bare prefix.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 4 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
