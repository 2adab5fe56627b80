package tree

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func newTestRBTree(count int64) *rbTree[int] {
	return NewRBTree[int]().(*rbTree[int]).withCount(count)
}

func (tree *rbTree[K]) withCount(count int64) *rbTree[K] {
	tree.count = count
	return tree
}

// rbn links a hand-built node, nil children become the sentinel.
func rbn(tree *rbTree[int], key int, color RBColor, left, right *rbNode[int]) *rbNode[int] {
	if left == nil {
		left = tree.sentinel
	}
	if right == nil {
		right = tree.sentinel
	}
	node := &rbNode[int]{
		key:    key,
		color:  color,
		left:   left,
		right:  right,
		parent: tree.sentinel,
		hasKey: true,
	}
	if !left.isNilLeaf() {
		left.parent = node
	}
	if !right.isNilLeaf() {
		right.parent = node
	}
	return node
}

func TestOrderValidate(t *testing.T) {
	require.NoError(t, OrderValidate(slices.Values([]int{})))
	require.NoError(t, OrderValidate(slices.Values([]int{1, 2, 5})))
	require.Error(t, OrderValidate(slices.Values([]int{1, 3, 2})))
	require.Error(t, OrderValidate(slices.Values([]int{1, 1})))
	require.NoError(t, OrderValidate(slices.Values([]string{"a", "b"})))
}

func TestRBBlackHeight(t *testing.T) {
	tree := newTestRBTree(6)
	n8 := rbn(tree, 8, Red, rbn(tree, 6, Black, nil, nil), rbn(tree, 11, Black, nil, nil))
	n15 := rbn(tree, 15, Black, nil, rbn(tree, 17, Red, nil, nil))
	tree.root = rbn(tree, 13, Black, n8, n15)

	bh, err := RBBlackHeight(tree.Root())
	require.NoError(t, err)
	require.Equal(t, 2, bh)
	bh, err = RBBlackHeight[int](n8)
	require.NoError(t, err)
	require.Equal(t, 2, bh)
	bh, err = RBBlackHeight[int](n15)
	require.NoError(t, err)
	require.Equal(t, 1, bh)
	bh, err = RBBlackHeight[int](nil)
	require.NoError(t, err)
	require.Equal(t, 0, bh)

	require.NoError(t, RBTreeValidate[int](tree))
}

func TestRBTreeValidate_Violations(t *testing.T) {
	t.Run("red root", func(t *testing.T) {
		tree := newTestRBTree(1)
		tree.root = rbn(tree, 10, Red, nil, nil)
		require.Error(t, RootColorValidate[int](tree))
		require.NoError(t, RedViolationValidate[int](tree))
		require.NoError(t, BlackViolationValidate[int](tree))
	})
	t.Run("red violation", func(t *testing.T) {
		tree := newTestRBTree(3)
		tree.root = rbn(tree, 10, Black, rbn(tree, 5, Red, rbn(tree, 3, Red, nil, nil), nil), nil)
		require.Error(t, RedViolationValidate[int](tree))
		require.NoError(t, BlackViolationValidate[int](tree))
		require.Error(t, RBTreeValidate[int](tree))
	})
	t.Run("black violation", func(t *testing.T) {
		tree := newTestRBTree(2)
		tree.root = rbn(tree, 10, Black, rbn(tree, 5, Black, nil, nil), nil)
		require.Error(t, BlackViolationValidate[int](tree))
		require.NoError(t, RedViolationValidate[int](tree))
	})
	t.Run("order violation", func(t *testing.T) {
		tree := newTestRBTree(2)
		tree.root = rbn(tree, 10, Black, rbn(tree, 20, Red, nil, nil), nil)
		require.Error(t, OrderValidate(tree.InOrder()))
		require.Error(t, RBTreeValidate[int](tree))
	})
	t.Run("size violation", func(t *testing.T) {
		tree := newTestRBTree(5)
		tree.root = rbn(tree, 10, Black, nil, nil)
		require.Error(t, RBTreeValidate[int](tree))
	})
	t.Run("parent link violation", func(t *testing.T) {
		tree := newTestRBTree(2)
		child := rbn(tree, 5, Red, nil, nil)
		tree.root = rbn(tree, 10, Black, child, nil)
		require.NoError(t, ParentLinkValidate[int](tree))
		child.parent = tree.sentinel
		require.Error(t, ParentLinkValidate[int](tree))
	})
	t.Run("combined", func(t *testing.T) {
		tree := newTestRBTree(3)
		tree.root = rbn(tree, 10, Red, rbn(tree, 5, Red, rbn(tree, 3, Black, nil, nil), nil), nil)
		err := RBTreeValidate[int](tree)
		require.Error(t, err)
		require.GreaterOrEqual(t, len(multierr.Errors(err)), 3)
	})
}

func TestAVLTreeValidate_Violations(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tree := &avlTree[int]{
			root: &avlNode[int]{
				key:    2,
				height: 2,
				left:   &avlNode[int]{key: 1, height: 1},
				right:  &avlNode[int]{key: 3, height: 1},
			},
			count: 3,
		}
		require.NoError(t, AVLTreeValidate[int](tree))
	})
	t.Run("stale height", func(t *testing.T) {
		tree := &avlTree[int]{
			root:  &avlNode[int]{key: 1, height: 2},
			count: 1,
		}
		require.Error(t, AVLBalanceValidate[int](tree))
	})
	t.Run("unbalanced", func(t *testing.T) {
		tree := &avlTree[int]{
			root: &avlNode[int]{
				key:    1,
				height: 3,
				right: &avlNode[int]{
					key:    2,
					height: 2,
					right:  &avlNode[int]{key: 3, height: 1},
				},
			},
			count: 3,
		}
		require.Equal(t, -2, AVLBalanceFactor(tree.Root()))
		require.Error(t, AVLBalanceValidate[int](tree))
		require.NoError(t, OrderValidate(tree.InOrder()))
	})
	t.Run("order violation", func(t *testing.T) {
		tree := &avlTree[int]{
			root: &avlNode[int]{
				key:    2,
				height: 2,
				left:   &avlNode[int]{key: 3, height: 1},
			},
			count: 2,
		}
		require.NoError(t, AVLBalanceValidate[int](tree))
		require.Error(t, AVLTreeValidate[int](tree))
	})
}
