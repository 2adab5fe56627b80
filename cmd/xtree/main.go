// Package main provides the xtree CLI: the interactive tree and string
// search menu, a one-shot search and a tree stress bench.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/benz9527/xtree/config"
)

// Set by -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xtree",
		Short: "Self-balancing search trees and string matchers",
		Long: `xtree drives AVL and red-black trees and the KMP and
Boyer-Moore string matchers.

Commands:
  menu      Interactive menu over the trees and matchers
  search    Find all occurrences of a pattern in a text
  bench     Randomized workloads over both tree engines`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to a YAML config file")
	flags.String("log-level", config.DefaultLogLevel, "DEBUG, INFO, WARN or ERROR")
	flags.String("log-encoder", config.DefaultLogEncoder, "json or plaintext")
	flags.String("metrics-exporter", config.DefaultMetricsExporter, "none, stdout or prometheus")
	flags.Duration("metrics-interval", config.DefaultMetricsInterval, "stdout exporter interval")
	flags.String("metrics-listen", config.DefaultMetricsListen, "prometheus scrape address")

	rootCmd.AddCommand(newMenuCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newBenchCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "xtree %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
