package tree

import (
	"iter"

	"github.com/benz9527/xtree/lib/infra"
)

// binaryNode is the shape shared by both engines' nodes.
// isNilLeaf must be nil receiver safe, the others are only
// called on real nodes.
type binaryNode[N any, K infra.OrderedKey] interface {
	getKey() K
	leftChild() N
	rightChild() N
	isNilLeaf() bool
}

// Inorder (left-root-right) traversal by an explicit stack.
// The returned sequence re-walks the tree on each range.
func inOrder[N binaryNode[N, K], K infra.OrderedKey](root func() N, sizeHint int64) iter.Seq[K] {
	return func(yield func(K) bool) {
		stack := make([]N, 0, stackCap(sizeHint))
		defer func() {
			clear(stack)
		}()

		for aux := root(); !aux.isNilLeaf(); aux = aux.leftChild() {
			stack = append(stack, aux)
		}
		for size := len(stack); size > 0; size = len(stack) {
			aux := stack[size-1]
			stack = stack[:size-1]
			if !yield(aux.getKey()) {
				return
			}
			for aux = aux.rightChild(); !aux.isNilLeaf(); aux = aux.leftChild() {
				stack = append(stack, aux)
			}
		}
	}
}

// Preorder (root-left-right) traversal.
func preOrder[N binaryNode[N, K], K infra.OrderedKey](root func() N, sizeHint int64) iter.Seq[K] {
	return func(yield func(K) bool) {
		aux := root()
		if aux.isNilLeaf() {
			return
		}
		stack := make([]N, 0, stackCap(sizeHint))
		defer func() {
			clear(stack)
		}()

		stack = append(stack, aux)
		for size := len(stack); size > 0; size = len(stack) {
			aux = stack[size-1]
			stack = stack[:size-1]
			if !yield(aux.getKey()) {
				return
			}
			if r := aux.rightChild(); !r.isNilLeaf() {
				stack = append(stack, r)
			}
			if l := aux.leftChild(); !l.isNilLeaf() {
				stack = append(stack, l)
			}
		}
	}
}

// Postorder (left-right-root) traversal. The last visited node
// tells whether the right subtree of the stack top is done.
func postOrder[N interface {
	binaryNode[N, K]
	comparable
}, K infra.OrderedKey](root func() N, sizeHint int64) iter.Seq[K] {
	return func(yield func(K) bool) {
		stack := make([]N, 0, stackCap(sizeHint))
		defer func() {
			clear(stack)
		}()

		var last N
		aux := root()
		for !aux.isNilLeaf() || len(stack) > 0 {
			if !aux.isNilLeaf() {
				stack = append(stack, aux)
				aux = aux.leftChild()
				continue
			}
			top := stack[len(stack)-1]
			if r := top.rightChild(); !r.isNilLeaf() && r != last {
				aux = r
				continue
			}
			if !yield(top.getKey()) {
				return
			}
			last = top
			stack = stack[:len(stack)-1]
		}
	}
}

func stackCap(sizeHint int64) int {
	if sizeHint <= 0 {
		return 0
	}
	// Balanced, so the stack never exceeds 2*log2(n) nodes.
	c := 0
	for n := sizeHint; n > 0; n >>= 1 {
		c++
	}
	return c << 1
}
