package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/config"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/xlog"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Randomized workloads over both tree engines",
		Long: `Each workload inserts a shuffled key range, deletes half of it and
searches every key. The workloads run on a worker pool and every tree
is validated afterwards unless --validate=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, func(ctx context.Context, env *appEnv) error {
				return runBench(ctx, env.Config.Bench, env.Logger, cmd.OutOrStdout())
			})
		},
	}
	flags := cmd.Flags()
	flags.Int("trees", config.DefaultBenchTrees, "workloads per tree engine")
	flags.Int("keys", config.DefaultBenchKeys, "keys per workload")
	flags.Int("workers", config.DefaultBenchWorkers, "worker pool size")
	flags.Bool("validate", config.DefaultBenchValidate, "validate the tree invariants after each workload")
	return cmd
}

// benchTree adapts both engines to one workload.
type benchTree interface {
	Insert(key int64) error
	Delete(key int64) error
	search(key int64) error
	validate() error
	Release()
}

type avlBenchTree struct {
	tree.AVLTree[int64]
}

func (t avlBenchTree) search(key int64) error {
	_, err := t.Search(key)
	return err
}

func (t avlBenchTree) validate() error {
	return tree.AVLTreeValidate(t.AVLTree)
}

type rbBenchTree struct {
	tree.RBTree[int64]
}

func (t rbBenchTree) search(key int64) error {
	_, err := t.Search(key)
	return err
}

func (t rbBenchTree) validate() error {
	return tree.RBTreeValidate(t.RBTree)
}

type benchEngine struct {
	name    string
	newTree func(logger xlog.XLogger) benchTree
}

var benchEngines = []benchEngine{
	{
		name: "avl",
		newTree: func(logger xlog.XLogger) benchTree {
			return avlBenchTree{tree.NewAVLTree[int64](
				tree.WithAVLTreeLogger[int64](logger),
				tree.WithAVLTreeStats[int64]("bench"),
			)}
		},
	},
	{
		name: "rb",
		newTree: func(logger xlog.XLogger) benchTree {
			return rbBenchTree{tree.NewRBTree[int64](
				tree.WithRBTreeLogger[int64](logger),
				tree.WithRBTreeStats[int64]("bench"),
			)}
		},
	},
}

type benchResult struct {
	engine  string
	ops     int64
	elapsed time.Duration
}

// runWorkload inserts every key, deletes the first half of another
// shuffle and searches every key again.
func runWorkload(t benchTree, keys int, validate bool) (benchResult, error) {
	defer t.Release()

	inserted := lo.Shuffle(lo.Map(lo.Range(keys), func(k int, _ int) int64 {
		return int64(k)
	}))
	deleted := lo.Shuffle(append([]int64(nil), inserted...))[:keys/2]

	res := benchResult{}
	start := time.Now()
	for _, k := range inserted {
		if err := t.Insert(k); err != nil {
			return res, infra.WrapErrorStackWithMessage(err, fmt.Sprintf("insert %d", k))
		}
	}
	for _, k := range deleted {
		if err := t.Delete(k); err != nil {
			return res, infra.WrapErrorStackWithMessage(err, fmt.Sprintf("delete %d", k))
		}
	}
	misses := 0
	for _, k := range inserted {
		if err := t.search(k); err != nil {
			misses++
		}
	}
	res.elapsed = time.Since(start)
	res.ops = int64(len(inserted) + len(deleted) + len(inserted))

	if misses != len(deleted) {
		return res, infra.NewErrorStack(fmt.Sprintf("[bench] %d search misses, expected %d", misses, len(deleted)))
	}
	if validate {
		if err := t.validate(); err != nil {
			return res, err
		}
	}
	return res, nil
}

func runBench(ctx context.Context, cfg config.BenchConfig, logger xlog.XLogger, out io.Writer) error {
	var (
		lock    sync.Mutex
		merr    error
		results = make([]benchResult, 0, cfg.Trees*len(benchEngines))
		wg      sync.WaitGroup
	)
	appendErr := func(err error) {
		lock.Lock()
		defer lock.Unlock()
		merr = multierr.Append(merr, err)
	}

	pool, err := ants.NewPool(
		cfg.Workers,
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
		ants.WithPanicHandler(func(p any) {
			logger.Error(nil, "bench workload panic", zap.Any("panic", p))
			appendErr(infra.NewErrorStack(fmt.Sprintf("[bench] workload panic: %v", p)))
		}),
	)
	if err != nil {
		return infra.WrapErrorStack(err)
	}
	defer pool.Release()

	start := time.Now()
	for _, engine := range benchEngines {
		for i := 0; i < cfg.Trees; i++ {
			wg.Add(1)
			task := func() {
				defer wg.Done()
				if ctx.Err() != nil {
					return
				}
				res, err := runWorkload(engine.newTree(logger), cfg.Keys, cfg.Validate)
				if err != nil {
					logger.ErrorStack(err, "bench workload failed", zap.String("engine", engine.name), zap.Int("tree", i))
					appendErr(err)
					return
				}
				res.engine = engine.name
				lock.Lock()
				results = append(results, res)
				lock.Unlock()
			}
			if err := pool.Submit(task); err != nil {
				wg.Done()
				appendErr(infra.WrapErrorStack(err))
			}
		}
	}
	wg.Wait()
	wall := time.Since(start)

	if err := ctx.Err(); err != nil {
		merr = multierr.Append(merr, err)
	}
	if merr != nil {
		return merr
	}
	return renderBench(ctx, out, cfg, results, wall)
}

func renderBench(ctx context.Context, out io.Writer, cfg config.BenchConfig, results []benchResult, wall time.Duration) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Engine", "Trees", "Keys", "Ops", "Elapsed", "Ops/s"})
	for _, engine := range benchEngines {
		var (
			trees   int
			ops     int64
			elapsed time.Duration
		)
		for _, res := range results {
			if res.engine != engine.name {
				continue
			}
			trees++
			ops += res.ops
			elapsed += res.elapsed
		}
		opsPerSec := int64(0)
		if elapsed > 0 {
			opsPerSec = int64(float64(ops) / elapsed.Seconds())
		}
		tbl.AppendRow(table.Row{
			engine.name,
			trees,
			humanize.Comma(int64(cfg.Keys)),
			humanize.Comma(ops),
			elapsed.Round(time.Microsecond),
			humanize.Comma(opsPerSec),
		})
	}
	tbl.AppendFooter(table.Row{"Wall", "", "", "", wall.Round(time.Microsecond), "RSS " + processRSS(ctx)})
	tbl.Render()
	return nil
}

func processRSS(ctx context.Context) string {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return "n/a"
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil || mem == nil {
		return "n/a"
	}
	return humanize.Bytes(mem.RSS)
}
