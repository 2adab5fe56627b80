package infra

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type myKey string

func TestCompare(t *testing.T) {
	require.Equal(t, int64(0), Compare(1, 1))
	require.Equal(t, int64(-1), Compare(1, 2))
	require.Equal(t, int64(1), Compare(2.5, 1.5))
	require.Equal(t, int64(-1), Compare[myKey]("a", "b"))

	var cmp OrderedKeyComparator[uint8] = Compare[uint8]
	require.Equal(t, int64(1), cmp('b', 'a'))
}
