package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchCmd(t *testing.T) {
	testcases := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "kmp overlapping",
			args:     []string{"search", "aa", "aaaa"},
			expected: "0\n1\n2\n",
		},
		{
			name:     "bm",
			args:     []string{"search", "--algo", "bm", "ab", "abab"},
			expected: "0\n2\n",
		},
		{
			name:     "kmp fold",
			args:     []string{"search", "--fold", "DATA", "data Data"},
			expected: "0\n5\n",
		},
		{
			name:     "upper case algo",
			args:     []string{"search", "--algo", "BM", "x", "axbx"},
			expected: "1\n3\n",
		},
		{
			name:     "rune offsets",
			args:     []string{"search", "wörld", "héllo wörld"},
			expected: "6\n",
		},
		{
			name:     "not found",
			args:     []string{"search", "xyz", "abc"},
			expected: "pattern not found\n",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			out, err := executeCmd(tt, "", tc.args...)
			require.NoError(tt, err)
			require.Equal(tt, tc.expected, out)
		})
	}
}

func TestSearchCmd_Errors(t *testing.T) {
	_, err := executeCmd(t, "", "search", "--algo", "bm", "--fold", "a", "a")
	require.ErrorContains(t, err, "not supported by bm")

	_, err = executeCmd(t, "", "search", "--algo", "naive", "a", "a")
	require.ErrorContains(t, err, "unknown algorithm naive")

	_, err = executeCmd(t, "", "search", "", "abc")
	require.Error(t, err)

	_, err = executeCmd(t, "", "search", "only-pattern")
	require.Error(t, err)
}

func TestNewMatcher(t *testing.T) {
	m, err := newMatcher("kmp", "ab", false)
	require.NoError(t, err)
	require.Equal(t, "kmp", m.Name())
	require.Equal(t, "ab", m.Pattern())

	m, err = newMatcher("bm", "ab", false)
	require.NoError(t, err)
	require.Equal(t, "bm", m.Name())
}
