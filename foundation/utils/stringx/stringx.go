// File: stringx.go
// Title: Grapheme-Aware String Functions
// Description: Truncation, length and padding on grapheme clusters and
//              display width.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-07
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-10-07 v0.3.0: Grapheme clusters via uniseg

package stringx

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Length returns the number of grapheme clusters in s
func Length(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Width returns the display width of s in monospace columns
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate shortens s to at most maxLen grapheme clusters including the
// ellipsis. Strings that fit are returned unchanged. If the ellipsis does
// not fit, s is cut to maxLen clusters without it.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if Length(s) <= maxLen {
		return s
	}

	keep := maxLen - Length(ellipsis)
	if keep <= 0 {
		keep, ellipsis = maxLen, ""
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < keep && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	b.WriteString(ellipsis)
	return b.String()
}

// PadRight pads s with pad to the given display width. Strings at least
// as wide are returned unchanged.
func PadRight(s string, width int, pad rune) string {
	w := Width(s)
	if w >= width {
		return s
	}
	padWidth := max(uniseg.StringWidth(string(pad)), 1)
	return s + strings.Repeat(string(pad), (width-w)/padWidth)
}

// IsBlank reports whether s is empty or only whitespace
func IsBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// FirstNonBlank returns the first argument that is not blank
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if !IsBlank(v) {
			return v
		}
	}
	return ""
}
