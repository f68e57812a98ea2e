package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	for in, want := range map[string]float64{
		"10":    10,
		" 2 ":   2,
		"-1.5":  -1.5,
		"1e3":   1000,
		"0.001": 0.001,
	} {
		got, ok := ParseNumber(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "10px", "NaN", "Inf", "-Inf"} {
		_, ok := ParseNumber(in)
		assert.False(t, ok, in)
	}
}

func TestCompareValues(t *testing.T) {
	assert.Negative(t, CompareValues("2", "10"))
	assert.Positive(t, CompareValues("10", "2"))
	assert.Zero(t, CompareValues("2.0", "2"))
	assert.Positive(t, CompareValues("b", "a"))
	// mixed values fall back to string order
	assert.Negative(t, CompareValues("10", "a"))
	assert.Positive(t, CompareValues("2", "10x"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcd...", TruncateString("abcdefghij", 7))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "", TruncateString("abc", 0))
	assert.Equal(t, 4, DisplayWidth("日本"))
	assert.Equal(t, "日...", TruncateString("日本語です", 5))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 row", Plural(1, "row", "rows"))
	assert.Equal(t, "3 rows", Plural(3, "row", "rows"))
}
