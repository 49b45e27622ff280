package ir

import (
	"regexp"
	"strings"
)

var (
	indexPattern  = regexp.MustCompile(`\[\d+\]`)
	interpPattern = regexp.MustCompile(`^\s*\{\{\s*(.+?)\s*\}\}\s*$`)
)

// NormalizeFieldPath collapses array indices so a[0] and a[7] report as the
// same logical field a[], and trims surrounding whitespace and stray dots.
func NormalizeFieldPath(path string) string {
	p := indexPattern.ReplaceAllString(strings.TrimSpace(path), "[]")
	return strings.Trim(p, ".")
}

// RootField returns the first path segment, stripped of index brackets.
func RootField(path string) string {
	seg := path
	if i := strings.IndexByte(seg, '.'); i >= 0 {
		seg = seg[:i]
	}
	if i := strings.IndexByte(seg, '['); i >= 0 {
		seg = seg[:i]
	}
	return seg
}

// IsNested reports whether the path addresses below its root segment.
func IsNested(path string) bool {
	return strings.ContainsRune(path, '.')
}

// StripInterpolation removes a surrounding {{ }} wrapper, if present.
// Text that is not a single interpolation is returned trimmed but otherwise
// untouched.
func StripInterpolation(s string) string {
	if m := interpPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return strings.TrimSpace(s)
}
