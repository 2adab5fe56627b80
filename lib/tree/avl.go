package tree

import (
	"iter"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/xlog"
)

type avlNode[K infra.OrderedKey] struct {
	left   *avlNode[K]
	right  *avlNode[K]
	key    K
	height int
}

func (node *avlNode[K]) Key() K {
	return node.key
}

func (node *avlNode[K]) Height() int {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *avlNode[K]) Left() AVLNode[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *avlNode[K]) Right() AVLNode[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *avlNode[K]) getKey() K               { return node.key }
func (node *avlNode[K]) isNilLeaf() bool         { return node == nil }
func (node *avlNode[K]) leftChild() *avlNode[K]  { return node.left }
func (node *avlNode[K]) rightChild() *avlNode[K] { return node.right }

func (node *avlNode[K]) updateHeight() {
	node.height = 1 + max(node.left.Height(), node.right.Height())
}

// balanceFactor is height(left) - height(right).
func (node *avlNode[K]) balanceFactor() int {
	if node == nil {
		return 0
	}
	return node.left.Height() - node.right.Height()
}

func (node *avlNode[K]) minimum() *avlNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *avlNode[K]) maximum() *avlNode[K] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

type avlTree[K infra.OrderedKey] struct {
	root   *avlNode[K]
	count  int64
	logger xlog.XLogger
	stats  *treeStats
}

func (tree *avlTree[K]) keyCompare(k1, k2 K) int64 {
	return infra.Compare(k1, k2)
}

func (tree *avlTree[K]) Len() int64 {
	return tree.count
}

func (tree *avlTree[K]) Root() AVLNode[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *avlTree[K]) debug(msg string, fields ...zap.Field) {
	if tree.logger == nil {
		return
	}
	tree.logger.Debug(msg, fields...)
}

/*
		 |                         |
		 X                         Y
		/ \     leftRotate(X)     / \
	   L   Y    ============>    X   Yr
		  / \                   / \
		Yl   Yr                L   Yl

Only X and Y own changed subtrees, so only their heights are
recomputed, X first because it is Y's child now.
*/
func (tree *avlTree[K]) leftRotate(x *avlNode[K]) *avlNode[K] {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] left rotate node x is nil or x.right is nil")
	}
	y := x.right
	x.right, y.left = y.left, x
	x.updateHeight()
	y.updateHeight()

	tree.stats.IncreaseRotationCount(Left)
	tree.debug("[avltree] left rotate", zap.Any("key", x.key), zap.Any("newSubRoot", y.key))
	return y
}

/*
		   |                         |
		   X                         Y
		  / \    rightRotate(X)     / \
		 Y   R   ============>    Yl   X
		/ \                           / \
	  Yl   Yr                       Yr   R
*/
func (tree *avlTree[K]) rightRotate(x *avlNode[K]) *avlNode[K] {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] right rotate node x is nil or x.left is nil")
	}
	y := x.left
	x.left, y.right = y.right, x
	x.updateHeight()
	y.updateHeight()

	tree.stats.IncreaseRotationCount(Right)
	tree.debug("[avltree] right rotate", zap.Any("key", x.key), zap.Any("newSubRoot", y.key))
	return y
}

func (tree *avlTree[K]) leftRightRotate(x *avlNode[K]) *avlNode[K] {
	x.left = tree.leftRotate(x.left)
	return tree.rightRotate(x)
}

func (tree *avlTree[K]) rightLeftRotate(x *avlNode[K]) *avlNode[K] {
	x.right = tree.rightRotate(x.right)
	return tree.leftRotate(x)
}

func (tree *avlTree[K]) search(key K) *avlNode[K] {
	for aux := tree.root; aux != nil; {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *avlTree[K]) Search(key K) (AVLNode[K], error) {
	node := tree.search(key)
	if node == nil {
		tree.stats.IncreaseOpCount(opSearch, ErrKeyNotFound)
		return nil, ErrKeyNotFound
	}
	tree.stats.IncreaseOpCount(opSearch, nil)
	return node, nil
}

func (tree *avlTree[K]) Min() (AVLNode[K], error) {
	if tree.root == nil {
		return nil, ErrKeyNotFound
	}
	return tree.root.minimum(), nil
}

func (tree *avlTree[K]) Max() (AVLNode[K], error) {
	if tree.root == nil {
		return nil, ErrKeyNotFound
	}
	return tree.root.maximum(), nil
}

func (tree *avlTree[K]) Insert(key K) error {
	if tree.search(key) != nil {
		tree.stats.IncreaseOpCount(opInsert, ErrDuplicateKey)
		tree.debug("[avltree] insert duplicate key", zap.Any("key", key))
		return ErrDuplicateKey
	}
	tree.root = tree.insert(tree.root, key)
	tree.count++
	tree.stats.IncreaseOpCount(opInsert, nil)
	tree.stats.RecordSize(1)
	return nil
}

// The recursion unwinds along the insertion path, so every
// ancestor's height is refreshed even after the single fix.
func (tree *avlTree[K]) insert(node *avlNode[K], key K) *avlNode[K] {
	if node == nil {
		return &avlNode[K]{key: key, height: 1}
	}
	if tree.keyCompare(key, node.key) < 0 {
		node.left = tree.insert(node.left, key)
	} else {
		node.right = tree.insert(node.right, key)
	}
	node.updateHeight()
	return tree.insertRebalance(node, key)
}

/*
The lowest unbalanced ancestor X is classified by where the new key K
went below it.

ll: K < X.left.key, rightRotate(X).

	    X            Y
	   /            / \
	  Y     ==>    K   X
	 /
	K

rr: K > X.right.key, leftRotate(X). Mirror of ll.

lr: K > X.left.key, leftRotate(X.left) then rightRotate(X).

	  X            X           K
	 /            /           / \
	Y     ==>    K    ==>    Y   X
	 \          /
	  K        Y

rl: K < X.right.key, rightRotate(X.right) then leftRotate(X). Mirror of lr.
*/
func (tree *avlTree[K]) insertRebalance(x *avlNode[K], key K) *avlNode[K] {
	bf := x.balanceFactor()
	switch {
	case bf > 1:
		if /* ll */ tree.keyCompare(key, x.left.key) < 0 {
			return tree.rightRotate(x)
		}
		/* lr */
		return tree.leftRightRotate(x)
	case bf < -1:
		if /* rr */ tree.keyCompare(key, x.right.key) > 0 {
			return tree.leftRotate(x)
		}
		/* rl */
		return tree.rightLeftRotate(x)
	default:
	}
	return x
}

func (tree *avlTree[K]) Delete(key K) error {
	if tree.search(key) == nil {
		tree.stats.IncreaseOpCount(opDelete, ErrKeyNotFound)
		tree.debug("[avltree] delete key not found", zap.Any("key", key))
		return ErrKeyNotFound
	}
	tree.root = tree.delete(tree.root, key)
	tree.count--
	tree.stats.IncreaseOpCount(opDelete, nil)
	tree.stats.RecordSize(-1)
	return nil
}

/*
d1: X has no right child, X is replaced by its left child.

d2: X has no left child, X is replaced by its right child.

d3: X has both children. Copy the key of the in-order successor S
(leftmost of the right subtree) into X, then delete S's key from
the right subtree. S has no left child, so that recursion ends in d2.
*/
func (tree *avlTree[K]) delete(node *avlNode[K], key K) *avlNode[K] {
	if node == nil {
		return nil
	}
	if res := tree.keyCompare(key, node.key); res < 0 {
		node.left = tree.delete(node.left, key)
	} else if res > 0 {
		node.right = tree.delete(node.right, key)
	} else {
		if /* d1 */ node.right == nil {
			l := node.left
			node.left = nil
			return l
		} else if /* d2 */ node.left == nil {
			r := node.right
			node.right = nil
			return r
		}
		/* d3 */
		succ := node.right.minimum()
		node.key = succ.key
		node.right = tree.delete(node.right, succ.key)
	}
	node.updateHeight()
	return tree.deleteRebalance(node)
}

/*
Unlike insert, a removal may shorten the subtree after the fix, so
every ancestor on the path is checked. There is no new key to steer
the case, the heavy child's balance factor decides it.

	bf(X) > 1:  bf(X.left) >= 0 is ll, bf(X.left) < 0 is lr.
	bf(X) < -1: bf(X.right) <= 0 is rr, bf(X.right) > 0 is rl.
*/
func (tree *avlTree[K]) deleteRebalance(x *avlNode[K]) *avlNode[K] {
	bf := x.balanceFactor()
	switch {
	case bf > 1:
		if x.left.balanceFactor() >= 0 {
			return tree.rightRotate(x)
		}
		return tree.leftRightRotate(x)
	case bf < -1:
		if x.right.balanceFactor() <= 0 {
			return tree.leftRotate(x)
		}
		return tree.rightLeftRotate(x)
	default:
	}
	return x
}

func (tree *avlTree[K]) rootNode() *avlNode[K] {
	return tree.root
}

func (tree *avlTree[K]) InOrder() iter.Seq[K] {
	return inOrder[*avlNode[K], K](tree.rootNode, tree.count)
}

func (tree *avlTree[K]) PreOrder() iter.Seq[K] {
	return preOrder[*avlNode[K], K](tree.rootNode, tree.count)
}

func (tree *avlTree[K]) PostOrder() iter.Seq[K] {
	return postOrder[*avlNode[K], K](tree.rootNode, tree.count)
}

// Release drops every node by a postorder unlink.
func (tree *avlTree[K]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}
	stack := make([]*avlNode[K], 0, stackCap(tree.count))
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.left, aux.right = nil, nil
	}
	tree.stats.RecordSize(-tree.count)
	tree.count = 0
}

type AVLTreeOpt[K infra.OrderedKey] func(*avlTree[K])

// WithAVLTreeLogger enables debug records of rotations and
// duplicate or missing keys.
func WithAVLTreeLogger[K infra.OrderedKey](logger xlog.XLogger) AVLTreeOpt[K] {
	return func(tree *avlTree[K]) {
		tree.logger = logger
	}
}

func WithAVLTreeStats[K infra.OrderedKey](name string) AVLTreeOpt[K] {
	return func(tree *avlTree[K]) {
		tree.stats = newTreeStats("avl", name)
	}
}

func NewAVLTree[K infra.OrderedKey](opts ...AVLTreeOpt[K]) AVLTree[K] {
	tree := &avlTree[K]{}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	return tree
}
