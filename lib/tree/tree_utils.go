package tree

import (
	"fmt"
	"iter"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

// Tree rule probes and validators. They only read the public node
// interfaces, so they serve tests and the bench command alike.

// OrderValidate checks the sequence is strictly increasing, which is
// the BST property with duplicates rejected.
func OrderValidate[K infra.OrderedKey](seq iter.Seq[K]) error {
	var (
		prev  K
		first = true
	)
	for key := range seq {
		if !first && infra.Compare(prev, key) >= 0 {
			return infra.NewErrorStack(fmt.Sprintf("tree order violation at key %v after %v", key, prev))
		}
		prev, first = key, false
	}
	return nil
}

func sizeValidate[K infra.OrderedKey](seq iter.Seq[K], expected int64) error {
	count := int64(0)
	for range seq {
		count++
	}
	if count != expected {
		return infra.NewErrorStack(fmt.Sprintf("tree size violation, traversed %d keys but len is %d", count, expected))
	}
	return nil
}

// AVLHeight returns the cached height of the subtree. Absent is 0.
func AVLHeight[K infra.OrderedKey](node AVLNode[K]) int {
	if node == nil {
		return 0
	}
	return node.Height()
}

// AVLBalanceFactor is height(left) - height(right).
func AVLBalanceFactor[K infra.OrderedKey](node AVLNode[K]) int {
	if node == nil {
		return 0
	}
	return AVLHeight(node.Left()) - AVLHeight(node.Right())
}

// Postorder recomputation of every height. The cached height must
// match it and the balance factor must be in [-1, 1].
func avlBalanceValidate[K infra.OrderedKey](node AVLNode[K]) (int, error) {
	if node == nil {
		return 0, nil
	}
	lh, err := avlBalanceValidate(node.Left())
	if err != nil {
		return 0, err
	}
	rh, err := avlBalanceValidate(node.Right())
	if err != nil {
		return 0, err
	}
	h := 1 + max(lh, rh)
	if h != node.Height() {
		return 0, infra.NewErrorStack(fmt.Sprintf("avltree height violation at key %v, cached %d but %d", node.Key(), node.Height(), h))
	}
	if bf := lh - rh; bf > 1 || bf < -1 {
		return 0, infra.NewErrorStack(fmt.Sprintf("avltree balance violation at key %v, balance factor %d", node.Key(), bf))
	}
	return h, nil
}

func AVLBalanceValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	_, err := avlBalanceValidate(tree.Root())
	return err
}

// AVLTreeValidate runs all AVL rules and combines the violations.
func AVLTreeValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	return multierr.Combine(
		OrderValidate(tree.InOrder()),
		sizeValidate(tree.InOrder(), tree.Len()),
		AVLBalanceValidate(tree),
	)
}

func isBlack[K infra.OrderedKey](node RBNode[K]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K infra.OrderedKey](node RBNode[K]) bool {
	return node != nil && node.Color() == Red
}

/*
RBBlackHeight counts the black nodes from the node down to any
descendant nil leaf, the node itself excluded and the nil leaf included.
A nil node is the nil leaf itself, 0.

<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]            bh(13) = 2
	        /  \
	     <8>    [15]        bh(8) = 2, bh(15) = 1
	     / \       \
	  [6] [11]     <17>     bh(6) = bh(11) = bh(17) = 1

It fails if two paths disagree (black-violation).
*/
func RBBlackHeight[K infra.OrderedKey](node RBNode[K]) (int, error) {
	if node == nil {
		return 0, nil
	}
	contribution := func(child RBNode[K]) (int, error) {
		if child == nil {
			return 1, nil // nil leaf is black
		}
		bh, err := RBBlackHeight(child)
		if err != nil {
			return 0, err
		}
		if isBlack(child) {
			bh++
		}
		return bh, nil
	}
	lbh, err := contribution(node.Left())
	if err != nil {
		return 0, err
	}
	rbh, err := contribution(node.Right())
	if err != nil {
		return 0, err
	}
	if lbh != rbh {
		return 0, infra.NewErrorStack(fmt.Sprintf("rbtree black violation at key %v, left %d right %d", node.Key(), lbh, rbh))
	}
	return lbh, nil
}

func RootColorValidate[K infra.OrderedKey](tree RBTree[K]) error {
	if root := tree.Root(); root != nil && root.Color() != Black {
		return infra.NewErrorStack(fmt.Sprintf("rbtree root %v is not black", root.Key()))
	}
	return nil
}

// Inorder traversal to validate no red node has a red child.
func RedViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	aux := tree.Root()
	if aux == nil {
		return nil
	}

	stack := make([]RBNode[K], 0, stackCap(tree.Len()))
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if isRed(aux) && (isRed(aux.Left()) || isRed(aux.Right())) {
			return infra.NewErrorStack(fmt.Sprintf("rbtree red violation at key %v", aux.Key()))
		}
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

func BlackViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	_, err := RBBlackHeight(tree.Root())
	return err
}

// ParentLinkValidate checks every child points back to its parent
// and the root has none.
func ParentLinkValidate[K infra.OrderedKey](tree RBTree[K]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	if root.Parent() != nil {
		return infra.NewErrorStack(fmt.Sprintf("rbtree root %v has a parent", root.Key()))
	}
	stack := []RBNode[K]{root}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		for _, child := range []RBNode[K]{aux.Left(), aux.Right()} {
			if child == nil {
				continue
			}
			if child.Parent() != aux {
				return infra.NewErrorStack(fmt.Sprintf("rbtree parent link violation at key %v", child.Key()))
			}
			stack = append(stack, child)
		}
	}
	return nil
}

// RBTreeValidate runs all red-black rules and combines the violations.
func RBTreeValidate[K infra.OrderedKey](tree RBTree[K]) error {
	return multierr.Combine(
		OrderValidate(tree.InOrder()),
		sizeValidate(tree.InOrder(), tree.Len()),
		RootColorValidate(tree),
		RedViolationValidate(tree),
		BlackViolationValidate(tree),
		ParentLinkValidate(tree),
	)
}
