package aggregator

import (
	"sort"

	"github.com/penwyp/go-time-tracer/internal/core/model"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// DefaultSeparator splits project paths into tree segments.
const DefaultSeparator = model.DefaultPathSeparator

// BreakdownRow is one rendered line of a breakdown report.
type BreakdownRow struct {
	Depth      int
	Name       string
	Path       string
	Duration   int64
	Percentage float64
	Leaf       bool
}

// BuildProjectTree folds (path, duration) pairs into a tree where each node
// holds the sum of every leaf at or below it.
func BuildProjectTree(stats []model.ProjectStat, sep string) *model.ProjectTree {
	if sep == "" {
		sep = DefaultSeparator
	}
	tree := model.NewProjectTree()
	for _, s := range stats {
		if s.Path == "" {
			continue
		}
		tree.Insert(model.SplitPath(s.Path, sep), s.Duration)
	}
	return tree
}

// Percentage returns d as a percentage of total, or 0 when total is 0.
func Percentage(d, total int64) float64 {
	return util.Percentage(d, total)
}

// SortedChildren returns nodes by descending duration, keeping insertion
// order between equal durations. The input slice is not modified.
func SortedChildren(nodes []*model.ProjectNode) []*model.ProjectNode {
	out := make([]*model.ProjectNode, len(nodes))
	copy(out, nodes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Duration > out[j].Duration
	})
	return out
}

// Flatten walks the tree depth first in breakdown order. Nodes with zero
// duration and no children are omitted.
func Flatten(tree *model.ProjectTree, total int64, sep string) []BreakdownRow {
	if tree == nil || tree.Empty() {
		return nil
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	var rows []BreakdownRow
	var walk func(nodes []*model.ProjectNode, depth int, prefix string)
	walk = func(nodes []*model.ProjectNode, depth int, prefix string) {
		for _, n := range SortedChildren(nodes) {
			if n.Duration == 0 && len(n.Children) == 0 {
				continue
			}
			path := n.Name
			if prefix != "" {
				path = prefix + sep + n.Name
			}
			rows = append(rows, BreakdownRow{
				Depth:      depth,
				Name:       n.Name,
				Path:       path,
				Duration:   n.Duration,
				Percentage: Percentage(n.Duration, total),
				Leaf:       len(n.Children) == 0,
			})
			walk(n.Children, depth+1, path)
		}
	}
	walk(tree.Roots(), 0, "")
	return rows
}
