package tree

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintAVLTree(t *testing.T) {
	tree := NewAVLTree[int]()
	for _, k := range []int{10, 20, 30} {
		require.NoError(t, tree.Insert(k))
	}
	buf := &bytes.Buffer{}
	require.NoError(t, PrintAVLTree(buf, tree))
	require.Equal(t, "        ----> 30, h:1, bf:0\n"+
		"----> 20, h:2, bf:0\n"+
		"        ----> 10, h:1, bf:0\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintAVLTree(buf, NewAVLTree[int]()))
	require.Empty(t, buf.String())
}

func TestPrintRBTree(t *testing.T) {
	tree := NewRBTree[int]()
	for _, k := range []int{10, 20, 30} {
		require.NoError(t, tree.Insert(k))
	}
	buf := &bytes.Buffer{}
	require.NoError(t, PrintRBTree(buf, tree, WithPrintIndent(2)))
	require.Equal(t, "  ----> 30, c:R, l:2\n"+
		"----> 20, c:B, l:1\n"+
		"  ----> 10, c:R, l:2\n", buf.String())

	buf.Reset()
	painter := func(color RBColor, label string) string {
		if color == Red {
			return "*" + label
		}
		return label
	}
	require.NoError(t, PrintRBTree(buf, tree, WithPrintIndent(0), WithPrintPainter(painter)))
	require.Equal(t, "----> *30, c:R, l:2\n"+
		"----> 20, c:B, l:1\n"+
		"----> *10, c:R, l:2\n", buf.String())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestPrintTree_WriteError(t *testing.T) {
	tree := NewAVLTree[int]()
	require.NoError(t, tree.Insert(1))
	require.NoError(t, tree.Insert(2))
	require.EqualError(t, PrintAVLTree(failWriter{}, tree), "closed")
}
