package tree

import (
	"iter"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/xlog"
)

// rbNode is either a real node (hasKey) or the tree's sentinel.
// The sentinel stands in for every absent child and for the root's
// parent. It stays black and never owns children. Its parent link is
// scratch space for the delete fixup.
type rbNode[K infra.OrderedKey] struct {
	parent *rbNode[K]
	left   *rbNode[K]
	right  *rbNode[K]
	key    K
	color  RBColor
	hasKey bool
}

func (node *rbNode[K]) Color() RBColor {
	return node.color
}

func (node *rbNode[K]) Key() K {
	return node.key
}

func (node *rbNode[K]) Left() RBNode[K] {
	if node.isNilLeaf() || node.left.isNilLeaf() {
		return nil
	}
	return node.left
}

func (node *rbNode[K]) Right() RBNode[K] {
	if node.isNilLeaf() || node.right.isNilLeaf() {
		return nil
	}
	return node.right
}

func (node *rbNode[K]) Parent() RBNode[K] {
	if node.isNilLeaf() || node.parent.isNilLeaf() {
		return nil
	}
	return node.parent
}

func (node *rbNode[K]) getKey() K              { return node.key }
func (node *rbNode[K]) leftChild() *rbNode[K]  { return node.left }
func (node *rbNode[K]) rightChild() *rbNode[K] { return node.right }

func (node *rbNode[K]) isNilLeaf() bool {
	return node == nil || !node.hasKey
}

func (node *rbNode[K]) isRed() bool {
	return !node.isNilLeaf() && node.color == Red
}

func (node *rbNode[K]) isBlack() bool {
	return node.isNilLeaf() || node.color == Black
}

func (node *rbNode[K]) isRoot() bool {
	return !node.isNilLeaf() && node.parent.isNilLeaf()
}

// paint is the only place colors change. The sentinel must stay black.
func (node *rbNode[K]) paint(color RBColor) {
	if node.isNilLeaf() {
		if color == Red {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] paint the nil leaf into red")
		}
		return
	}
	node.color = color
}

func (node *rbNode[K]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K]) minimum() *rbNode[K] {
	aux := node
	for ; !aux.isNilLeaf() && !aux.left.isNilLeaf(); aux = aux.left {
	}
	return aux
}

func (node *rbNode[K]) maximum() *rbNode[K] {
	aux := node
	for ; !aux.isNilLeaf() && !aux.right.isNilLeaf(); aux = aux.right {
	}
	return aux
}

type rbTree[K infra.OrderedKey] struct {
	root     *rbNode[K]
	sentinel *rbNode[K]
	count    int64
	logger   xlog.XLogger
	stats    *treeStats
}

func (tree *rbTree[K]) keyCompare(k1, k2 K) int64 {
	return infra.Compare(k1, k2)
}

func (tree *rbTree[K]) debug(msg string, fields ...zap.Field) {
	if tree.logger == nil {
		return
	}
	tree.logger.Debug(msg, fields...)
}

func (tree *rbTree[K]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K]) Root() RBNode[K] {
	if tree.root.isNilLeaf() {
		return nil
	}
	return tree.root
}

// References:
// Introduction to Algorithms (CLRS), chapter 13.
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. The sentinel (all NIL leaves) is black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL leaves goes through the same number of black nodes. (black-violation)
// p5. The root is black.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K]) leftRotate(x *rbNode[K]) {
	if x.isNilLeaf() || x.right.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right = y.left
	if !y.left.isNilLeaf() {
		y.left.parent = x
	}
	y.parent = p
	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.left = x
	x.parent = y

	tree.stats.IncreaseRotationCount(Left)
	tree.debug("[rbtree] left rotate", zap.Any("key", x.key), zap.Any("newSubRoot", y.key))
}

/*
		   |                         |
		   X                         S
		  / \    rightRotate(X)     / \
		 S   R   ============>    Sd   X
		/ \                           / \
	  Sd   Sc                       Sc   R
*/
func (tree *rbTree[K]) rightRotate(x *rbNode[K]) {
	if x.isNilLeaf() || x.left.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left = y.right
	if !y.right.isNilLeaf() {
		y.right.parent = x
	}
	y.parent = p
	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.right = x
	x.parent = y

	tree.stats.IncreaseRotationCount(Right)
	tree.debug("[rbtree] right rotate", zap.Any("key", x.key), zap.Any("newSubRoot", y.key))
}

// rotate turns x down to the dir side.
func (tree *rbTree[K]) rotate(x *rbNode[K], dir RBDirection) {
	switch dir {
	case Left:
		tree.leftRotate(x)
	case Right:
		tree.rightRotate(x)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] rotate without side")
	}
}

// child returns the dir side child, the sentinel included.
func (node *rbNode[K]) child(dir RBDirection) *rbNode[K] {
	switch dir {
	case Left:
		return node.left
	case Right:
		return node.right
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] child without side")
	}
}

func (tree *rbTree[K]) search(key K) *rbNode[K] {
	aux := tree.root
	for !aux.isNilLeaf() {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return aux // sentinel
}

func (tree *rbTree[K]) Search(key K) (RBNode[K], error) {
	node := tree.search(key)
	if node.isNilLeaf() {
		tree.stats.IncreaseOpCount(opSearch, ErrKeyNotFound)
		return nil, ErrKeyNotFound
	}
	tree.stats.IncreaseOpCount(opSearch, nil)
	return node, nil
}

func (tree *rbTree[K]) Min() (RBNode[K], error) {
	if tree.root.isNilLeaf() {
		return nil, ErrKeyNotFound
	}
	return tree.root.minimum(), nil
}

func (tree *rbTree[K]) Max() (RBNode[K], error) {
	if tree.root.isNilLeaf() {
		return nil, ErrKeyNotFound
	}
	return tree.root.maximum(), nil
}

/*
i1: Empty rbtree, the new node becomes the root and is painted black.

i2: The parent P is black. Nothing is violated.

Otherwise the parent P is red and enters the fixup loop.
*/
func (tree *rbTree[K]) Insert(key K) error {
	var x, y *rbNode[K] = tree.root, tree.sentinel
	for !x.isNilLeaf() {
		y = x
		res := tree.keyCompare(key, x.key)
		if /* equal */ res == 0 {
			tree.stats.IncreaseOpCount(opInsert, ErrDuplicateKey)
			tree.debug("[rbtree] insert duplicate key", zap.Any("key", key))
			return ErrDuplicateKey
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[K]{
		key:    key,
		color:  Red,
		parent: y,
		left:   tree.sentinel,
		right:  tree.sentinel,
		hasKey: true,
	}
	if /* i1 */ y.isNilLeaf() {
		tree.root = z
	} else if tree.keyCompare(key, y.key) < 0 {
		y.left = z
	} else {
		y.right = z
	}
	tree.count++
	tree.stats.IncreaseOpCount(opInsert, nil)
	tree.stats.RecordSize(1)

	if /* i1 */ z.isRoot() {
		z.paint(Black)
		return nil
	}
	if /* i2 */ z.parent.isBlack() {
		return nil
	}
	tree.insertRebalance(z)
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

P is red, so it is not the root and the grandpa G exists and is black.
The uncle U is G's child on the opposite side of P.

im1: U is red. (red-violation)
Repaint P and U into black, G into red. G may now be red under a red
parent, continue from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im2: U is black and X is the inner grandchild (zig-zag).
Rotate P toward the outside, the old P becomes the current node and
the shape is the straight line of im3.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im3: U is black and X is the outer grandchild (straight line).
Rotate G to the opposite side, paint the new subtree root black and
G red. The loop ends here.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

The mirrored side is the same with Left and Right swapped. The root is
always painted black at the end.
*/
func (tree *rbTree[K]) insertRebalance(x *rbNode[K]) {
	for x.parent.isRed() {
		p := x.parent
		g := p.parent
		pDir := p.Direction()
		uncle := g.child(-pDir)

		if /* im1 */ uncle.isRed() {
			p.paint(Black)
			uncle.paint(Black)
			g.paint(Red)
			x = g
			tree.stats.IncreaseFixupCount("im1")
			tree.debug("[rbtree] insert fixup recolor", zap.Any("grandpa", g.key))
			continue
		}

		if /* im2 */ x.Direction() != pDir {
			x = p
			tree.rotate(x, pDir)
			tree.stats.IncreaseFixupCount("im2")
		}

		/* im3 */
		x.parent.paint(Black)
		g.paint(Red)
		tree.rotate(g, -pDir)
		tree.stats.IncreaseFixupCount("im3")
		break
	}
	tree.root.paint(Black)
}

// transplant replaces the subtree rooted at u with the one rooted at v.
// v may be the sentinel, whose parent link is set anyway so the delete
// fixup can climb from it.
func (tree *rbTree[K]) transplant(u, v *rbNode[K]) {
	switch dir := u.Direction(); dir {
	case Root:
		tree.root = v
	case Left:
		u.parent.left = v
	case Right:
		u.parent.right = v
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to transplant")
	}
	v.parent = u.parent
}

func (tree *rbTree[K]) Delete(key K) error {
	z := tree.search(key)
	if z.isNilLeaf() {
		tree.stats.IncreaseOpCount(opDelete, ErrKeyNotFound)
		tree.debug("[rbtree] delete key not found", zap.Any("key", key))
		return ErrKeyNotFound
	}
	tree.removeNode(z)
	tree.count--
	tree.stats.IncreaseOpCount(opDelete, nil)
	tree.stats.RecordSize(-1)
	return nil
}

/*
r1: Z has no right child, the left child (maybe the sentinel) takes Z's place.

r2: Z has no left child, the right child takes Z's place.

r3: Z has two children. The successor Y (minimum of Z's right subtree)
has no left child. Y's right child X takes Y's place, then Y takes Z's
place and inherits Z's color.

	    |                  |
	    Z                  Y
	   / \                / \
	  L   R    ====>     L   R
	     /                  /
	   ...                ...
	   /                  /
	  Y                  X
	   \
	    X

The color removed from the tree is Z's in r1 and r2, and Y's original
color in r3. If it is black, the paths through X lost one black node
and the fixup starts at X, which may be the sentinel.
*/
func (tree *rbTree[K]) removeNode(z *rbNode[K]) {
	var x *rbNode[K]
	y, yOriginColor := z, z.color
	if /* r1 */ z.right.isNilLeaf() {
		x = z.left
		tree.transplant(z, z.left)
	} else if /* r2 */ z.left.isNilLeaf() {
		x = z.right
		tree.transplant(z, z.right)
	} else /* r3 */ {
		y = z.right.minimum()
		yOriginColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			tree.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		tree.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
		tree.debug("[rbtree] delete borrow successor", zap.Any("key", z.key), zap.Any("succ", y.key))
	}

	if yOriginColor == Black {
		tree.removeRebalance(x)
	}

	// Unlink node.
	z.parent, z.left, z.right = nil, nil, nil
	tree.sentinel.parent = nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X carries an extra black. S is X's sibling, Sc is S's child on X's
side (near), Sd is S's child on the other side (far).

rm1: S is red. Rotate P toward X, paint S black and P red. X gets a
black sibling, continue with rm2, rm3 or rm4.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black. Paint S red, the extra black moves up to P.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: S is black, Sc is red and Sd is black. Paint Sc black and S red,
rotate S away from X. Sd is red now, continue with rm4.

	  {P}                   {P}
	  / \    r-rotate(S)    / \
	[X] [S]  ==========>  [X] [Sc]
	    / \                     \
	  <Sc> [Sd]                 <S>
	                              \
	                              [Sd]

rm4: S is black and Sd is red. S takes P's color, P and Sd are painted
black, rotate P toward X. The extra black is absorbed, the loop ends.

	  {P}                   {S}
	  / \    l-rotate(P)    / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	 {Sc} <Sd>          [X] {Sc}

The mirrored side is the same with Left and Right swapped. At last X
is painted black, which also covers a red X and X reaching the root.
*/
func (tree *rbTree[K]) removeRebalance(x *rbNode[K]) {
	for x != tree.root && x.isBlack() {
		p := x.parent
		dir := Left
		if x != p.left {
			dir = Right
		}
		sibling := p.child(-dir)

		if /* rm1 */ sibling.isRed() {
			sibling.paint(Black)
			p.paint(Red)
			tree.rotate(p, dir)
			sibling = p.child(-dir)
			tree.stats.IncreaseFixupCount("rm1")
		}

		sc, sd := sibling.child(dir), sibling.child(-dir)
		if /* rm2 */ sc.isBlack() && sd.isBlack() {
			sibling.paint(Red)
			x = p
			tree.stats.IncreaseFixupCount("rm2")
			continue
		}

		if /* rm3 */ sd.isBlack() {
			sc.paint(Black)
			sibling.paint(Red)
			tree.rotate(sibling, -dir)
			sibling = p.child(-dir)
			sd = sibling.child(-dir)
			tree.stats.IncreaseFixupCount("rm3")
		}

		/* rm4 */
		sibling.paint(p.color)
		p.paint(Black)
		sd.paint(Black)
		tree.rotate(p, dir)
		tree.stats.IncreaseFixupCount("rm4")
		x = tree.root
	}
	x.paint(Black)
}

func (tree *rbTree[K]) rootNode() *rbNode[K] {
	return tree.root
}

func (tree *rbTree[K]) InOrder() iter.Seq[K] {
	return inOrder[*rbNode[K], K](tree.rootNode, tree.count)
}

func (tree *rbTree[K]) PreOrder() iter.Seq[K] {
	return preOrder[*rbNode[K], K](tree.rootNode, tree.count)
}

func (tree *rbTree[K]) PostOrder() iter.Seq[K] {
	return postOrder[*rbNode[K], K](tree.rootNode, tree.count)
}

func (tree *rbTree[K]) Release() {
	aux := tree.root
	tree.root = tree.sentinel
	tree.sentinel.parent = nil
	if aux.isNilLeaf() {
		return
	}

	stack := make([]*rbNode[K], 0, stackCap(tree.count))
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if !aux.left.isNilLeaf() {
			stack = append(stack, aux.left)
		}
		if !aux.right.isNilLeaf() {
			stack = append(stack, aux.right)
		}
		aux.parent, aux.left, aux.right = nil, nil, nil
	}
	tree.stats.RecordSize(-tree.count)
	tree.count = 0
}

type RBTreeOpt[K infra.OrderedKey] func(*rbTree[K])

// WithRBTreeLogger enables debug records of rotations, fixup
// cases and duplicate or missing keys.
func WithRBTreeLogger[K infra.OrderedKey](logger xlog.XLogger) RBTreeOpt[K] {
	return func(tree *rbTree[K]) {
		tree.logger = logger
	}
}

func WithRBTreeStats[K infra.OrderedKey](name string) RBTreeOpt[K] {
	return func(tree *rbTree[K]) {
		tree.stats = newTreeStats("rb", name)
	}
}

func NewRBTree[K infra.OrderedKey](opts ...RBTreeOpt[K]) RBTree[K] {
	sentinel := &rbNode[K]{color: Black}
	tree := &rbTree[K]{
		root:     sentinel,
		sentinel: sentinel,
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	return tree
}
