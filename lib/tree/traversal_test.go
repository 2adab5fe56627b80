package tree

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStackCap(t *testing.T) {
	require.Equal(t, 0, stackCap(0))
	require.Equal(t, 0, stackCap(-1))
	require.Equal(t, 2, stackCap(1))
	require.Equal(t, 4, stackCap(3))
	require.Equal(t, 20, stackCap(1000))
}

func TestTraversal_BothEnginesAgree(t *testing.T) {
	keys := []int{50, 30, 70, 20, 40, 60, 80, 10, 90, 65}
	avl, rb := NewAVLTree[int](), NewRBTree[int]()
	for _, k := range keys {
		require.NoError(t, avl.Insert(k))
		require.NoError(t, rb.Insert(k))
	}
	sorted := slices.Sorted(slices.Values(keys))
	require.Equal(t, sorted, slices.Collect(avl.InOrder()))
	require.Equal(t, sorted, slices.Collect(rb.InOrder()))

	// Each order visits every key once, the shapes differ.
	for _, seq := range [][]int{
		slices.Collect(avl.PreOrder()),
		slices.Collect(avl.PostOrder()),
		slices.Collect(rb.PreOrder()),
		slices.Collect(rb.PostOrder()),
	} {
		require.ElementsMatch(t, keys, seq)
	}

	preOrder := slices.Collect(rb.PreOrder())
	require.Equal(t, rb.Root().Key(), preOrder[0])
	postOrder := slices.Collect(avl.PostOrder())
	require.Equal(t, avl.Root().Key(), postOrder[len(postOrder)-1])
}

func TestTraversal_Reentrant(t *testing.T) {
	tree := NewRBTree[int]()
	seq := tree.InOrder()
	require.Empty(t, slices.Collect(seq))
	for k := range 5 {
		require.NoError(t, tree.Insert(k))
	}
	// A sequence walks the current tree on each range.
	require.Equal(t, []int{0, 1, 2, 3, 4}, slices.Collect(seq))
	require.Equal(t, []int{0, 1, 2, 3, 4}, slices.Collect(seq))
}

func TestTraversal_EarlyStop(t *testing.T) {
	tree := NewAVLTree[int]()
	for k := range 32 {
		require.NoError(t, tree.Insert(k))
	}
	for _, seq := range []func(yield func(int) bool){tree.PreOrder(), tree.PostOrder()} {
		count := 0
		for range seq {
			count++
			if count == 3 {
				break
			}
		}
		require.Equal(t, 3, count)
	}
}
