package engine

import "github.com/louisbranch/talentcalc/internal/talent/tree"

// Event records one point spent in a node. The rank it grants is implicit:
// the Nth event for a node grants rank N.
type Event struct {
	Tree int    `json:"tree"`
	Node string `json:"node"`
}

// History is the ordered spend log.
type History []Event

// Clone returns an independent copy of the history.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	return append(History(nil), h...)
}

// Count returns how many events name the node.
func (h History) Count(treeIdx int, nodeID string) int {
	n := 0
	for _, evt := range h {
		if evt.Tree == treeIdx && evt.Node == nodeID {
			n++
		}
	}
	return n
}

// CountTree returns how many events belong to the tree.
func (h History) CountTree(treeIdx int) int {
	n := 0
	for _, evt := range h {
		if evt.Tree == treeIdx {
			n++
		}
	}
	return n
}

// LastIndex returns the position of the most recent event for the node.
func (h History) LastIndex(treeIdx int, nodeID string) int {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Tree == treeIdx && h[i].Node == nodeID {
			return i
		}
	}
	return -1
}

// Without returns a copy of the history minus the event at index i.
func (h History) Without(i int) History {
	if i < 0 || i >= len(h) {
		return h.Clone()
	}
	out := make(History, 0, len(h)-1)
	out = append(out, h[:i]...)
	return append(out, h[i+1:]...)
}

// WithoutTree returns a copy of the history minus every event of the tree,
// preserving the relative order of the rest.
func (h History) WithoutTree(treeIdx int) History {
	out := make(History, 0, len(h))
	for _, evt := range h {
		if evt.Tree != treeIdx {
			out = append(out, evt)
		}
	}
	return out
}

// Replay folds every event of the history in order. Events that do not
// resolve to a node are skipped; fold receives the node's array index and the
// rank the event grants.
func Replay(h History, trees []tree.Tree, fold func(evt Event, nodeIdx, rank int)) {
	ranks := make(map[Event]int, len(h))
	for _, evt := range h {
		if evt.Tree < 0 || evt.Tree >= len(trees) {
			continue
		}
		idx, ok := trees[evt.Tree].Index(evt.Node)
		if !ok {
			continue
		}
		ranks[evt]++
		fold(evt, idx, ranks[evt])
	}
}

// Derive projects the history onto per-tree, per-node point totals. Counts
// are capped at each node's MaxPoints; unresolvable events are ignored. The
// result is a pure function of history and trees.
func Derive(h History, trees []tree.Tree) [][]int {
	points := make([][]int, len(trees))
	for i, t := range trees {
		points[i] = make([]int, len(t.Talents))
	}
	Replay(h, trees, func(evt Event, nodeIdx, _ int) {
		if points[evt.Tree][nodeIdx] < trees[evt.Tree].Talents[nodeIdx].MaxPoints {
			points[evt.Tree][nodeIdx]++
		}
	})
	return points
}
