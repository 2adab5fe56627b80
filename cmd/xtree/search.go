package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/strsearch"
)

const (
	algoKMP = "kmp"
	algoBM  = "bm"
)

func newMatcher(algo, pattern string, fold bool) (strsearch.Matcher, error) {
	switch strings.ToLower(algo) {
	case algoKMP:
		var opts []strsearch.KMPOpt
		if fold {
			opts = append(opts, strsearch.WithKMPCaseFold())
		}
		return strsearch.NewKMP(pattern, opts...)
	case algoBM:
		if fold {
			return nil, infra.NewErrorStack("[search] case folding is not supported by bm")
		}
		return strsearch.NewBoyerMoore(pattern)
	default:
	}
	return nil, infra.NewErrorStack("[search] unknown algorithm " + algo)
}

func newSearchCmd() *cobra.Command {
	var (
		algo string
		fold bool
	)
	cmd := &cobra.Command{
		Use:   "search PATTERN TEXT",
		Short: "Find all occurrences of a pattern in a text",
		Long: `Print the rune offsets of every occurrence of PATTERN in TEXT,
one per line. Occurrences may overlap.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matcher, err := newMatcher(algo, args[0], fold)
			if err != nil {
				return err
			}
			return runApp(cmd, func(_ context.Context, env *appEnv) error {
				offsets := matcher.FindAll(args[1])
				env.Logger.Debug("search",
					zap.String("algo", matcher.Name()),
					zap.String("pattern", matcher.Pattern()),
					zap.Int("matches", len(offsets)),
				)
				out := cmd.OutOrStdout()
				if len(offsets) == 0 {
					_, err := fmt.Fprintln(out, "pattern not found")
					return err
				}
				for _, off := range offsets {
					if _, err := fmt.Fprintln(out, off); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&algo, "algo", algoKMP, "kmp or bm")
	cmd.Flags().BoolVar(&fold, "fold", false, "case insensitive match, kmp only")
	return cmd
}
