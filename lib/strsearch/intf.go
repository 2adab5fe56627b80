package strsearch

import (
	"unicode"
)

type SearchErr string

const (
	ErrEmptyPattern SearchErr = "[strsearch] empty pattern"
)

func (err SearchErr) Error() string {
	return string(err)
}

// Matcher finds every occurrence of a pattern compiled at construction.
// The offsets are in runes, overlapping occurrences are all reported.
type Matcher interface {
	Name() string
	Pattern() string
	FindAll(text string) []int
}

// foldRune maps a rune to the smallest rune of its simple case
// folding orbit, so 'K', 'k' and the Kelvin sign compare equal.
func foldRune(r rune) rune {
	m := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < m {
			m = f
		}
	}
	return m
}

func foldRunes(rs []rune) []rune {
	for i := range rs {
		rs[i] = foldRune(rs[i])
	}
	return rs
}
