package codec

import (
	"cmp"
	"slices"
	"strings"

	"github.com/louisbranch/talentcalc/internal/talent/engine"
	"github.com/louisbranch/talentcalc/internal/talent/tree"
)

const denseSeparator = "-"

// EncodeDense writes one digit per node and joins trees with '-'. Trailing
// zeros inside a tree and trailing empty trees are dropped, so an empty
// build encodes to "".
func EncodeDense(points [][]int) string {
	segments := make([]string, len(points))
	last := -1
	for i, row := range points {
		end := len(row)
		for end > 0 && row[end-1] <= 0 {
			end--
		}
		var b strings.Builder
		for _, p := range row[:end] {
			b.WriteByte(byte('0' + min(max(p, 0), 9)))
		}
		segments[i] = b.String()
		if end > 0 {
			last = i
		}
	}
	return strings.Join(segments[:last+1], denseSeparator)
}

// DecodeDense reads a dense build against trees. Missing digits are zero,
// non-digits are zero and values above a node's cap are clamped.
func DecodeDense(s string, trees []tree.Tree) [][]int {
	points := make([][]int, len(trees))
	segments := strings.Split(s, denseSeparator)
	for i, t := range trees {
		points[i] = make([]int, len(t.Talents))
		if i >= len(segments) {
			continue
		}
		for j := 0; j < len(segments[i]) && j < len(t.Talents); j++ {
			c := segments[i][j]
			if c < '0' || c > '9' {
				continue
			}
			points[i][j] = min(int(c-'0'), t.Talents[j].MaxPoints)
		}
	}
	return points
}

// IsDense reports whether s looks like a dense build: digits and
// separators only.
func IsDense(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '-' {
			return false
		}
	}
	return true
}

// HistoryFromDense synthesizes a spend order for final totals that carry
// none. Each pass walks every tree by row, then requirement depth, granting
// points to nodes the gating rules accept, until a pass makes no progress.
// Points that could never be granted legally are appended at the end so the
// distribution survives; Engine.Seed accepts them without gating.
func HistoryFromDense(points [][]int, trees []tree.Tree, budget int) engine.History {
	e := engine.New(trees, engine.WithBudget(budget))
	orders := make([][]int, len(trees))
	for i, t := range trees {
		orders[i] = grantOrder(t)
	}
	target := func(treeIdx, nodeIdx int) int {
		if treeIdx >= len(points) || nodeIdx >= len(points[treeIdx]) {
			return 0
		}
		return min(points[treeIdx][nodeIdx], trees[treeIdx].Talents[nodeIdx].MaxPoints)
	}

	for progress := true; progress; {
		progress = false
		for treeIdx, order := range orders {
			for _, nodeIdx := range order {
				node := trees[treeIdx].Talents[nodeIdx]
				for e.Points()[treeIdx][nodeIdx] < target(treeIdx, nodeIdx) {
					if !e.Increment(treeIdx, node.ID).Accepted() {
						break
					}
					progress = true
				}
			}
		}
	}

	h := e.History()
	granted := e.Points()
	for treeIdx, order := range orders {
		for _, nodeIdx := range order {
			for n := granted[treeIdx][nodeIdx]; n < target(treeIdx, nodeIdx); n++ {
				h = append(h, engine.Event{Tree: treeIdx, Node: trees[treeIdx].Talents[nodeIdx].ID})
			}
		}
	}
	return h
}

func grantOrder(t tree.Tree) []int {
	depth := tree.RequirementDepth(t)
	order := make([]int, len(t.Talents))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		na, nb := t.Talents[a], t.Talents[b]
		return cmp.Or(cmp.Compare(na.Row, nb.Row), cmp.Compare(depth[na.ID], depth[nb.ID]))
	})
	return order
}
