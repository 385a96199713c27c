package engine

import (
	"fmt"

	"github.com/louisbranch/talentcalc/internal/talent/gate"
	"github.com/louisbranch/talentcalc/internal/talent/tree"
)

// Option configures an Engine.
type Option func(*Engine)

// WithBudget sets the global point budget.
func WithBudget(budget int) Option {
	return func(e *Engine) {
		if budget >= 0 {
			e.budget = budget
		}
	}
}

// WithSchedule sets the level schedule used for CurrentLevel.
func WithSchedule(schedule Schedule) Option {
	return func(e *Engine) {
		e.schedule = schedule
	}
}

// Engine holds the spend history of one class and derives everything else
// from it.
type Engine struct {
	trees    []tree.Tree
	budget   int
	schedule Schedule
	history  History

	// points memoizes Derive(history, trees); nil means stale.
	points [][]int
}

// New builds an engine over a private copy of trees with an empty history.
func New(trees []tree.Tree, opts ...Option) *Engine {
	e := &Engine{
		trees:    tree.Clone(trees),
		budget:   DefaultBudget,
		schedule: DefaultSchedule,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Trees returns a copy of the reference trees.
func (e *Engine) Trees() []tree.Tree {
	return tree.Clone(e.trees)
}

// Budget returns the global point budget.
func (e *Engine) Budget() int {
	return e.budget
}

// Schedule returns the level schedule.
func (e *Engine) Schedule() Schedule {
	return e.schedule
}

// History returns a copy of the spend history.
func (e *Engine) History() History {
	return e.history.Clone()
}

// Points returns a copy of the derived per-tree, per-node point totals.
func (e *Engine) Points() [][]int {
	points := e.derived()
	out := make([][]int, len(points))
	for i, row := range points {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Talents returns the talent view of one tree, or nil for an unknown index.
func (e *Engine) Talents(treeIdx int) []gate.Talent {
	if treeIdx < 0 || treeIdx >= len(e.trees) {
		return nil
	}
	return gate.Combine(e.trees[treeIdx].Talents, e.derived()[treeIdx])
}

// Increment grants one point to the node when gating, rank cap and budget
// allow it. A refused increment leaves state untouched.
func (e *Engine) Increment(treeIdx int, nodeID string) Decision {
	idx, rejection := e.locate(treeIdx, nodeID)
	if rejection != nil {
		return Reject(*rejection)
	}
	talents := e.Talents(treeIdx)
	target := talents[idx]

	if reason := gate.LockReason(target, talents); reason != gate.ReasonNone {
		return Reject(reasonRejection(reason, target))
	}
	if reason := gate.IncrementReason(target, e.PointsRemaining(), false); reason != gate.ReasonNone {
		return Reject(reasonRejection(reason, target))
	}

	evt := Event{Tree: treeIdx, Node: nodeID}
	e.history = append(e.history, evt)
	e.invalidate()
	return Accept(evt)
}

// Decrement removes the most recent point granted to the node, provided the
// rest of the tree stays valid without it. Other nodes keep their relative
// order in the history.
func (e *Engine) Decrement(treeIdx int, nodeID string) Decision {
	idx, rejection := e.locate(treeIdx, nodeID)
	if rejection != nil {
		return Reject(*rejection)
	}
	talents := e.Talents(treeIdx)
	target := talents[idx]

	if reason := gate.DecrementReason(target, talents); reason != gate.ReasonNone {
		return Reject(reasonRejection(reason, target))
	}

	last := e.history.LastIndex(treeIdx, nodeID)
	if last < 0 {
		return Reject(reasonRejection(gate.ReasonNoPointsSpent, target))
	}
	removed := e.history[last]
	e.history = e.history.Without(last)
	e.invalidate()
	return Accept(removed)
}

// ResetTree removes every event of one tree. Events of other trees keep
// their order.
func (e *Engine) ResetTree(treeIdx int) Decision {
	if treeIdx < 0 || treeIdx >= len(e.trees) {
		return Reject(Rejection{Code: RejectUnknownTree, Message: fmt.Sprintf("tree %d does not exist", treeIdx)})
	}
	var removed []Event
	for _, evt := range e.history {
		if evt.Tree == treeIdx {
			removed = append(removed, evt)
		}
	}
	e.history = e.history.WithoutTree(treeIdx)
	e.invalidate()
	return Accept(removed...)
}

// ResetAll clears the history, returning every tree to zero points.
func (e *Engine) ResetAll() Decision {
	removed := e.history
	e.history = nil
	e.invalidate()
	return Accept(removed...)
}

// Reload swaps in fresh reference trees and clears the history.
func (e *Engine) Reload(trees []tree.Tree) {
	e.trees = tree.Clone(trees)
	e.history = nil
	e.invalidate()
}

// Seed replaces the history with an externally decoded one, typically from a
// shared build string. Seeding is lenient: events naming unknown trees or
// nodes, events past a node's rank cap and events past the budget are
// dropped. Gating is not re-applied so a decoded build reproduces its point
// distribution exactly. Seed returns how many events were dropped.
func (e *Engine) Seed(h History) int {
	seeded := make(History, 0, len(h))
	counts := make(map[Event]int, len(h))
	dropped := 0
	for _, evt := range h {
		if _, rejection := e.locate(evt.Tree, evt.Node); rejection != nil {
			dropped++
			continue
		}
		node, _ := e.trees[evt.Tree].Node(evt.Node)
		if counts[evt] >= node.MaxPoints || len(seeded) >= e.budget {
			dropped++
			continue
		}
		counts[evt]++
		seeded = append(seeded, evt)
	}
	e.history = seeded
	e.invalidate()
	return dropped
}

// Valid reports whether every tree satisfies tier and prerequisite rules.
// Histories built only through Increment are always valid; seeded ones may
// not be.
func (e *Engine) Valid() bool {
	for i := range e.trees {
		if !gate.TreeValid(e.Talents(i)) {
			return false
		}
	}
	return true
}

// TotalPointsSpent is the length of the history.
func (e *Engine) TotalPointsSpent() int {
	return len(e.history)
}

// PointsRemaining is the unspent part of the budget, never negative.
func (e *Engine) PointsRemaining() int {
	return max(0, e.budget-e.TotalPointsSpent())
}

// PointsSpentInTree counts the history events of one tree.
func (e *Engine) PointsSpentInTree(treeIdx int) int {
	return e.history.CountTree(treeIdx)
}

// PointsSpentPerTree maps tree names to their spent points.
func (e *Engine) PointsSpentPerTree() map[string]int {
	out := make(map[string]int, len(e.trees))
	for i, t := range e.trees {
		out[t.Name] = e.PointsSpentInTree(i)
	}
	return out
}

func (e *Engine) locate(treeIdx int, nodeID string) (int, *Rejection) {
	if treeIdx < 0 || treeIdx >= len(e.trees) {
		return -1, &Rejection{Code: RejectUnknownTree, Message: fmt.Sprintf("tree %d does not exist", treeIdx)}
	}
	idx, ok := e.trees[treeIdx].Index(nodeID)
	if !ok {
		return -1, &Rejection{Code: RejectUnknownNode, Message: fmt.Sprintf("node %q is not in tree %q", nodeID, e.trees[treeIdx].Name)}
	}
	return idx, nil
}

func (e *Engine) derived() [][]int {
	if e.points == nil {
		e.points = Derive(e.history, e.trees)
	}
	return e.points
}

func (e *Engine) invalidate() {
	e.points = nil
}

func reasonRejection(reason gate.Reason, target gate.Talent) Rejection {
	var message string
	switch reason {
	case gate.ReasonTierLocked:
		message = fmt.Sprintf("%s needs %d points in earlier rows", target.Name, gate.TierRequirement(target.Row))
	case gate.ReasonPrerequisiteLocked:
		message = fmt.Sprintf("%s needs %d points in %s", target.Name, target.Requires.Points, target.Requires.ID)
	case gate.ReasonMaxRank:
		message = fmt.Sprintf("%s is at max rank", target.Name)
	case gate.ReasonNoPointsRemaining:
		message = "no talent points remaining"
	case gate.ReasonNoPointsSpent:
		message = fmt.Sprintf("%s has no points to remove", target.Name)
	case gate.ReasonDependentRequires:
		message = fmt.Sprintf("another talent requires the points in %s", target.Name)
	case gate.ReasonTierCascade:
		message = fmt.Sprintf("removing a point from %s would lock a later row", target.Name)
	default:
		message = string(reason)
	}
	return Rejection{Code: string(reason), Message: message}
}
