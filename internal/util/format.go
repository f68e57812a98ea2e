package util

import (
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ParseNumber reports whether s is a number and returns its value.
// Surrounding whitespace is ignored; NaN and infinities are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CompareValues orders two cell texts: numerically when both parse as
// numbers, lexicographically otherwise. The result is negative, zero or
// positive.
func CompareValues(a, b string) int {
	x, okA := ParseNumber(a)
	y, okB := ParseNumber(b)
	if okA && okB {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// TruncateString truncates a string to maxWidth display cells and adds "..." if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// DisplayWidth returns the number of terminal cells s occupies.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Plural returns "1 row" / "2 rows" style counts.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
