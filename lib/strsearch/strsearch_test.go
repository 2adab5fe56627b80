package strsearch

import (
	randv2 "math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func naiveFindAll(pattern, text string) []int {
	p, t := []rune(pattern), []rune(text)
	offsets := []int{}
	for s := 0; s+len(p) <= len(t); s++ {
		if string(t[s:s+len(p)]) == pattern {
			offsets = append(offsets, s)
		}
	}
	return offsets
}

func newMatchers(t *testing.T, pattern string) []Matcher {
	kmp, err := NewKMP(pattern)
	require.NoError(t, err)
	bm, err := NewBoyerMoore(pattern)
	require.NoError(t, err)
	return []Matcher{kmp, bm}
}

func TestBuildLPS(t *testing.T) {
	require.Equal(t, []int{0, 1, 0, 1, 2, 2}, buildLPS([]rune("aabaaa")))
	require.Equal(t, []int{0, 0, 1, 2}, buildLPS([]rune("abab")))
	require.Equal(t, []int{0}, buildLPS([]rune("a")))
}

func TestBuildGoodSuffix(t *testing.T) {
	// Period of the pattern after a full match.
	require.Equal(t, 2, buildGoodSuffix([]rune("abab"))[0])
	require.Equal(t, 1, buildGoodSuffix([]rune("aaaa"))[0])
	require.Equal(t, 3, buildGoodSuffix([]rune("abc"))[0])
}

func TestMatchers_FindAll(t *testing.T) {
	testcases := []struct {
		name     string
		pattern  string
		text     string
		expected []int
	}{
		{"overlapping", "aa", "aaaa", []int{0, 1, 2}},
		{"periodic", "abab", "abababab", []int{0, 2, 4}},
		{"single", "needle", "haystack with a needle inside", []int{16}},
		{"absent", "xyz", "abcabc", []int{}},
		{"empty text", "a", "", []int{}},
		{"longer pattern", "abcdef", "abc", []int{}},
		{"whole text", "abc", "abc", []int{0}},
		{"case sensitive", "data", "DATA data", []int{5}},
		{"runes", "wörld", "héllo wörld", []int{6}},
		{"bad char skip", "example", "here is a simple example", []int{17}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			for _, m := range newMatchers(t, tc.pattern) {
				require.Equal(t, tc.pattern, m.Pattern())
				require.Equal(t, tc.expected, m.FindAll(tc.text), m.Name())
			}
		})
	}
}

func TestMatchers_EmptyPattern(t *testing.T) {
	_, err := NewKMP("")
	require.ErrorIs(t, err, ErrEmptyPattern)
	_, err = NewBoyerMoore("")
	require.ErrorIs(t, err, ErrEmptyPattern)
}

func TestKMP_CaseFold(t *testing.T) {
	m, err := NewKMP("data", WithKMPCaseFold())
	require.NoError(t, err)
	require.Equal(t, "data", m.Pattern())
	require.Equal(t, []int{0, 16}, m.FindAll("DATA structure, Data"))

	m, err = NewKMP("STRASSE", WithKMPCaseFold())
	require.NoError(t, err)
	require.Equal(t, []int{0}, m.FindAll("strasse"))

	// Kelvin sign folds with 'k'.
	m, err = NewKMP("k", WithKMPCaseFold())
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, m.FindAll("kKK"))
}

func TestMatchers_AgainstNaive(t *testing.T) {
	for _, alphabet := range []string{"ab", "abc", "aé"} {
		letters := []rune(alphabet)
		gen := func(n int) string {
			var sb strings.Builder
			for i := 0; i < n; i++ {
				sb.WriteRune(letters[randv2.IntN(len(letters))])
			}
			return sb.String()
		}
		for i := 0; i < 500; i++ {
			pattern := gen(1 + randv2.IntN(5))
			text := gen(randv2.IntN(64))
			expected := naiveFindAll(pattern, text)
			for _, m := range newMatchers(t, pattern) {
				require.Equal(t, expected, m.FindAll(text), "%s: %q in %q", m.Name(), pattern, text)
			}
		}
	}
}

func BenchmarkKMP(b *testing.B) {
	text := strings.Repeat("abcde", 1024) + "abcdf"
	m, _ := NewKMP("abcdf")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.FindAll(text)
	}
}

func BenchmarkBoyerMoore(b *testing.B) {
	text := strings.Repeat("abcde", 1024) + "abcdf"
	m, _ := NewBoyerMoore("abcdf")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.FindAll(text)
	}
}
