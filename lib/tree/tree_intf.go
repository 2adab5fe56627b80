package tree

import (
	"iter"

	"github.com/benz9527/xtree/lib/infra"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "Unknown"
}

type TreeErr string

const (
	// ErrDuplicateKey reports an insert of an already present key.
	// The tree is left untouched.
	ErrDuplicateKey TreeErr = "[tree] duplicate key, not inserted"
	// ErrKeyNotFound reports a delete or search miss.
	ErrKeyNotFound TreeErr = "[tree] key not found"
)

func (err TreeErr) Error() string {
	return string(err)
}

type AVLNode[K infra.OrderedKey] interface {
	Key() K
	// Height of the subtree rooted at the node. A leaf is 1.
	Height() int
	Left() AVLNode[K]
	Right() AVLNode[K]
}

type AVLTree[K infra.OrderedKey] interface {
	Len() int64
	Root() AVLNode[K]
	Insert(key K) error
	Delete(key K) error
	Search(key K) (AVLNode[K], error)
	Min() (AVLNode[K], error)
	Max() (AVLNode[K], error)
	InOrder() iter.Seq[K]
	PreOrder() iter.Seq[K]
	PostOrder() iter.Seq[K]
	Release()
}

// RBNode hides the sentinel. Left, Right and Parent return nil
// where the tree links to its nil leaf.
type RBNode[K infra.OrderedKey] interface {
	Key() K
	Color() RBColor
	Left() RBNode[K]
	Right() RBNode[K]
	Parent() RBNode[K]
}

type RBTree[K infra.OrderedKey] interface {
	Len() int64
	Root() RBNode[K]
	Insert(key K) error
	Delete(key K) error
	Search(key K) (RBNode[K], error)
	Min() (RBNode[K], error)
	Max() (RBNode[K], error)
	InOrder() iter.Seq[K]
	PreOrder() iter.Seq[K]
	PostOrder() iter.Seq[K]
	Release()
}
