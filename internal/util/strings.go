// Package util provides common utility functions used across the codebase.
package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks a cell that was cut to fit its column.
const Ellipsis = "…"

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Truncate shortens s to at most width terminal cells, ending in an
// ellipsis when anything was cut. Wide runes count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return Ellipsis
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// Fit truncates or pads s to exactly width cells. Right-aligned cells are
// padded on the left.
func Fit(s string, width int, right bool) string {
	s = Truncate(s, width)
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}
