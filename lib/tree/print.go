package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/benz9527/xtree/lib/infra"
)

// The tree is printed rotated 90 degrees to the left, the right
// subtree above its root and the left subtree below.
//
//	        ----> 30, h:1, bf:0
//	----> 20, h:2, bf:0
//	        ----> 10, h:1, bf:0
//
// Debugging aid only, the shape is not a stable format.

type printCfg struct {
	indent  int
	painter func(color RBColor, label string) string
}

type PrintOpt func(*printCfg)

// WithPrintIndent sets the spaces per level, 8 by default.
func WithPrintIndent(indent int) PrintOpt {
	return func(cfg *printCfg) {
		if indent >= 0 {
			cfg.indent = indent
		}
	}
}

// WithPrintPainter decorates each label, e.g. by terminal colors.
// AVL nodes are painted as Black.
func WithPrintPainter(painter func(color RBColor, label string) string) PrintOpt {
	return func(cfg *printCfg) {
		cfg.painter = painter
	}
}

func newPrintCfg(opts ...PrintOpt) *printCfg {
	cfg := &printCfg{indent: 8}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return cfg
}

type printWriter struct {
	w   io.Writer
	cfg *printCfg
	err error
}

func (pw *printWriter) line(level int, color RBColor, label string) {
	if pw.err != nil {
		return
	}
	if pw.cfg.painter != nil {
		label = pw.cfg.painter(color, label)
	}
	_, pw.err = fmt.Fprintf(pw.w, "%s----> %s\n", strings.Repeat(" ", pw.cfg.indent*level), label)
}

func PrintAVLTree[K infra.OrderedKey](w io.Writer, tree AVLTree[K], opts ...PrintOpt) error {
	pw := &printWriter{w: w, cfg: newPrintCfg(opts...)}
	var walk func(node AVLNode[K], level int)
	walk = func(node AVLNode[K], level int) {
		if node == nil {
			return
		}
		walk(node.Right(), level+1)
		pw.line(level, Black, fmt.Sprintf("%v, h:%d, bf:%d", node.Key(), node.Height(), AVLBalanceFactor(node)))
		walk(node.Left(), level+1)
	}
	walk(tree.Root(), 0)
	return pw.err
}

func PrintRBTree[K infra.OrderedKey](w io.Writer, tree RBTree[K], opts ...PrintOpt) error {
	pw := &printWriter{w: w, cfg: newPrintCfg(opts...)}
	var walk func(node RBNode[K], level int)
	walk = func(node RBNode[K], level int) {
		if node == nil {
			return
		}
		walk(node.Right(), level+1)
		c := "B"
		if node.Color() == Red {
			c = "R"
		}
		pw.line(level, node.Color(), fmt.Sprintf("%v, c:%s, l:%d", node.Key(), c, level+1))
		walk(node.Left(), level+1)
	}
	walk(tree.Root(), 0)
	return pw.err
}
