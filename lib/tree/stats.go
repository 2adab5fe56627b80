package tree

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	TreeStatsName = "xtree/tree"
)

type treeOp string

const (
	opInsert treeOp = "insert"
	opDelete treeOp = "delete"
	opSearch treeOp = "search"
)

// treeStats methods are nil receiver safe, a tree built without
// the stats option records nothing.
type treeStats struct {
	kind          string
	opCount       metric.Int64Counter
	rotationCount metric.Int64Counter
	fixupCount    metric.Int64Counter
	size          metric.Int64UpDownCounter
}

func (stats *treeStats) IncreaseOpCount(op treeOp, err error) {
	if stats == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, ErrDuplicateKey):
		result = "duplicate"
	case errors.Is(err, ErrKeyNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	default:
	}
	as := attribute.NewSet(
		attribute.String("xtree.kind", stats.kind),
		attribute.String("xtree.op", string(op)),
		attribute.String("xtree.result", result),
	)
	stats.opCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *treeStats) IncreaseRotationCount(dir RBDirection) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String("xtree.kind", stats.kind),
		attribute.String("xtree.rotation", dir.String()),
	)
	stats.rotationCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

// IncreaseFixupCount counts the red-black fixup loop cases taken.
func (stats *treeStats) IncreaseFixupCount(fixupCase string) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String("xtree.kind", stats.kind),
		attribute.String("xtree.fixup", fixupCase),
	)
	stats.fixupCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *treeStats) RecordSize(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	as := attribute.NewSet(
		attribute.String("xtree.kind", stats.kind),
	)
	stats.size.Add(context.Background(), delta, metric.WithAttributeSet(as))
}

func newTreeStats(kind, name string) *treeStats {
	if len(name) == 0 {
		name = "default"
	}
	meterName := fmt.Sprintf("%s/%s/%s", TreeStatsName, kind, name)
	return &treeStats{
		kind: kind,
		opCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"xtree.op.count",
				metric.WithDescription("The number of tree operations by op and result."),
			),
		),
		rotationCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"xtree.rotation.count",
				metric.WithDescription("The number of rotations by direction."),
			),
		),
		fixupCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"xtree.fixup.count",
				metric.WithDescription("The number of red-black fixup cases applied."),
			),
		),
		size: lo.Must[metric.Int64UpDownCounter](otel.Meter(meterName).
			Int64UpDownCounter(
				"xtree.size",
				metric.WithDescription("The number of keys in the tree."),
			),
		),
	}
}
