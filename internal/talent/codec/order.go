package codec

import (
	"github.com/louisbranch/talentcalc/internal/talent/engine"
	"github.com/louisbranch/talentcalc/internal/talent/tree"
)

// EncodeOrder renders a history as an order slug. Events that do not
// resolve to a node, or that exceed a node's rank cap, are left out.
func EncodeOrder(h engine.History, trees []tree.Tree) string {
	out := make([]byte, 0, len(h)+4)
	current, segStart := -1, 0
	segment := make(map[int]int)
	total := make(map[engine.Event]int, len(h))

	for _, evt := range h {
		idx, ok := letterIndex(trees, evt)
		if !ok {
			continue
		}
		maxPoints := trees[evt.Tree].Talents[idx].MaxPoints
		if total[evt] >= maxPoints {
			continue
		}
		total[evt]++

		if evt.Tree != current {
			current = evt.Tree
			clear(segment)
			out = append(out, byte('0'+evt.Tree))
			segStart = len(out)
		}
		segment[idx]++

		lower := byte('a' + idx)
		if segment[idx] < maxPoints {
			out = append(out, lower)
			continue
		}
		kept := out[:segStart]
		for _, c := range out[segStart:] {
			if c != lower {
				kept = append(kept, c)
			}
		}
		out = append(kept, byte('A'+idx))
	}
	return string(out)
}

// DecodeOrder reads an order slug back into a history. A lowercase letter
// is one point, an uppercase letter fills the node to its rank cap. Letters
// before the first digit, unknown trees, unknown letters and points past a
// node's cap are skipped.
func DecodeOrder(slug string, trees []tree.Tree) engine.History {
	var h engine.History
	counts := make(map[engine.Event]int)
	current := -1

	for i := 0; i < len(slug); i++ {
		c := slug[i]
		var idx, points int
		switch {
		case c >= '0' && c <= '9':
			current = int(c - '0')
			if current >= len(trees) {
				current = -1
			}
			continue
		case current < 0:
			continue
		case c >= 'a' && c <= 'z':
			idx, points = int(c-'a'), 1
		case c >= 'A' && c <= 'Z':
			idx, points = int(c-'A'), -1
		default:
			continue
		}
		if idx >= len(trees[current].Talents) {
			continue
		}
		node := trees[current].Talents[idx]
		evt := engine.Event{Tree: current, Node: node.ID}
		if points < 0 {
			points = node.MaxPoints
		}
		points = min(points, node.MaxPoints-counts[evt])
		for range points {
			h = append(h, evt)
		}
		counts[evt] += max(points, 0)
	}
	return h
}

func letterIndex(trees []tree.Tree, evt engine.Event) (int, bool) {
	if evt.Tree < 0 || evt.Tree >= len(trees) || evt.Tree >= tree.MaxTreesPerClass {
		return 0, false
	}
	idx, ok := trees[evt.Tree].Index(evt.Node)
	if !ok || idx >= tree.MaxTalentsPerTree {
		return 0, false
	}
	return idx, true
}
