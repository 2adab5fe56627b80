package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/config"
	"github.com/benz9527/xtree/lib/strsearch"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/xlog"
)

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu over the trees and matchers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, func(ctx context.Context, env *appEnv) error {
				env.Loader.Watch(func(cfg *config.Config, err error, in fsnotify.Event) {
					if err != nil {
						env.Logger.ErrorStack(err, "config reload failed", zap.String("file", in.Name))
						return
					}
					lvl, err := zapcore.ParseLevel(strings.ToLower(cfg.Log.Level))
					if err != nil {
						return
					}
					env.Logger.IncreaseLogLevel(lvl)
					env.Logger.Info("config reloaded", zap.String("file", in.Name), zap.String("log.level", cfg.Log.Level))
				})
				return newMenu(cmd.InOrStdin(), cmd.OutOrStdout(), env.Logger).run(ctx)
			})
		},
	}
}

// menuTree adapts both engines to the tree sub-menu.
type menuTree interface {
	Insert(key int64) error
	Delete(key int64) error
	InOrder() iter.Seq[int64]
	describe(key int64) (string, error)
	print(w io.Writer) error
}

type avlMenuTree struct {
	tree.AVLTree[int64]
}

func (t avlMenuTree) describe(key int64) (string, error) {
	node, err := t.Search(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("key: %d, height: %d, balance factor: %d", node.Key(), node.Height(), tree.AVLBalanceFactor(node)), nil
}

func (t avlMenuTree) print(w io.Writer) error {
	return tree.PrintAVLTree(w, t.AVLTree)
}

type rbMenuTree struct {
	tree.RBTree[int64]
}

func (t rbMenuTree) describe(key int64) (string, error) {
	node, err := t.Search(key)
	if err != nil {
		return "", err
	}
	bh, err := tree.RBBlackHeight(node)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("key: %d, color: %s, black height: %d", node.Key(), node.Color(), bh), nil
}

var redPainter = color.New(color.FgRed)

func (t rbMenuTree) print(w io.Writer) error {
	return tree.PrintRBTree(w, t.RBTree, tree.WithPrintPainter(func(c tree.RBColor, label string) string {
		if c == tree.Red {
			return redPainter.Sprint(label)
		}
		return label
	}))
}

type menu struct {
	in     *bufio.Scanner
	out    io.Writer
	logger xlog.XLogger
}

func newMenu(in io.Reader, out io.Writer, logger xlog.XLogger) *menu {
	return &menu{
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

func (m *menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}

// readLine returns false on the end of input.
func (m *menu) readLine(prompt string) (string, bool) {
	m.printf("%s", prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimRight(m.in.Text(), "\r"), true
}

// readInt re-prompts until a valid integer or the end of input.
func (m *menu) readInt(prompt, invalid string) (int64, bool) {
	for {
		line, ok := m.readLine(prompt)
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err == nil {
			return v, true
		}
		m.printf("%s\n", invalid)
	}
}

func (m *menu) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.printf("\nLIST OF ALGORITHMS:-\n" +
			"1. Knuth Morris Pratt Algorithm\n" +
			"2. Red Black Trees Algorithm\n" +
			"3. Adelson-Velskii and Landis(AVL) Trees Algorithm\n" +
			"4. Boyer Moore Algorithm\n" +
			"5. Exit\n")
		choice, ok := m.readInt("Enter the Choice:", "Incorrect Format of the choice")
		if !ok {
			return m.in.Err()
		}
		switch choice {
		case 1:
			m.printf("********************* WELCOME TO KNUTH MORRIS PRATT SEARCH ALGORITHM *******************\n")
			if !m.search(func(pattern string) (strsearch.Matcher, error) {
				return strsearch.NewKMP(pattern, strsearch.WithKMPCaseFold())
			}) {
				return m.in.Err()
			}
		case 2:
			if !m.treeMenu("RED BLACK", rbMenuTree{tree.NewRBTree[int64](
				tree.WithRBTreeLogger[int64](m.logger),
				tree.WithRBTreeStats[int64]("menu"),
			)}) {
				return m.in.Err()
			}
		case 3:
			if !m.treeMenu("AVL", avlMenuTree{tree.NewAVLTree[int64](
				tree.WithAVLTreeLogger[int64](m.logger),
				tree.WithAVLTreeStats[int64]("menu"),
			)}) {
				return m.in.Err()
			}
		case 4:
			m.printf("********************* WELCOME TO BOYER MOORE SEARCH ALGORITHM *******************\n")
			if !m.search(strsearch.NewBoyerMoore) {
				return m.in.Err()
			}
		case 5:
			m.printf("EXITING NOW...\n")
			return nil
		default:
			m.printf("Please enter the correct choice\n")
		}
		m.printf("\nPlease enter the next algorithm you want to try or exit\n")
	}
}

func (m *menu) search(newMatcher func(pattern string) (strsearch.Matcher, error)) bool {
	text, ok := m.readLine("Please enter the input string ")
	if !ok {
		return false
	}
	pattern, ok := m.readLine("Please enter the pattern to be matched ")
	if !ok {
		return false
	}
	if len(text) == 0 || len(pattern) == 0 {
		m.printf("Empty String or Empty Pattern\n")
		return true
	}
	matcher, err := newMatcher(pattern)
	if err != nil {
		m.printf("%v\n", err)
		return true
	}
	offsets := matcher.FindAll(text)
	if len(offsets) == 0 {
		m.printf("Pattern not found\n")
		return true
	}
	for _, off := range offsets {
		m.printf("The pattern is found at location %d\n", off)
	}
	m.printf("The number of times the pattern is found = %d\n", len(offsets))
	m.logger.Debug("menu search", zap.String("algo", matcher.Name()), zap.Ints("offsets", offsets))
	return true
}

// treeMenu returns false on the end of input.
func (m *menu) treeMenu(name string, t menuTree) bool {
	for {
		m.printf("\n********************* WELCOME TO %s Tree *******************\n"+
			"\nOperations to Perform on Tree:-\n"+
			"1. Insert\n"+
			"2. Delete\n"+
			"3. Search\n"+
			"4. Pretty Print Tree\n"+
			"5. In-order Traversal\n"+
			"6. Go Back to Previous Menu\n", name)
		choice, ok := m.readInt("Enter the Choice:", "Incorrect Format of the choice")
		if !ok {
			return false
		}
		switch choice {
		case 1:
			key, ok := m.readInt("Enter the Key to insert:", "Incorrect Format of the key")
			if !ok {
				return false
			}
			if err := t.Insert(key); err != nil {
				m.printf("Key %d is already in the tree\n", key)
			}
		case 2:
			key, ok := m.readInt("Enter the Key to remove:", "Incorrect Format of the key")
			if !ok {
				return false
			}
			if err := t.Delete(key); err != nil {
				m.printf("Couldn't find key in the tree\n")
			}
		case 3:
			key, ok := m.readInt("Enter the Key to search:", "Incorrect Format of the key")
			if !ok {
				return false
			}
			if desc, err := t.describe(key); err != nil {
				m.printf("Node with key not found\n")
			} else {
				m.printf("Node found: %s\n", desc)
			}
		case 4:
			if err := t.print(m.out); err != nil {
				m.logger.ErrorStack(err, "pretty print failed")
			}
		case 5:
			keys := make([]string, 0, 16)
			for k := range t.InOrder() {
				keys = append(keys, strconv.FormatInt(k, 10))
			}
			m.printf("In-order: [%s]\n", strings.Join(keys, " "))
		case 6:
			m.printf("Going back to Main Menu\n")
			return true
		default:
			m.printf("Please enter the correct choice\n")
		}
	}
}
