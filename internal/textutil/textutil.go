package textutil

import (
	"strings"

	"golang.org/x/text/width"
)

// SummarizeSpec collapses every whitespace run, including newlines, into a
// single space and trims the ends.
func SummarizeSpec(spec string) string {
	return strings.Join(strings.Fields(spec), " ")
}

// DisplayWidth counts terminal columns, treating wide and fullwidth runes as two.
func DisplayWidth(s string) int {
	total := 0
	for _, r := range s {
		total += runeWidth(r)
	}
	return total
}

// Truncate shortens s to at most maxWidth columns, ending with "…" when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if DisplayWidth(s) <= maxWidth {
		return s
	}

	var b strings.Builder
	used := 0
	for _, r := range s {
		w := runeWidth(r)
		if used+w > maxWidth-1 {
			break
		}
		b.WriteRune(r)
		used += w
	}
	b.WriteString("…")
	return b.String()
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
