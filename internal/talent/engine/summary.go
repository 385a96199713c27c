package engine

import (
	"github.com/louisbranch/talentcalc/internal/talent/gate"
	"github.com/louisbranch/talentcalc/internal/talent/tree"
)

// PrimaryTreeFloor is the number of points a tree must exceed before it can
// be reported as the primary tree.
const PrimaryTreeFloor = 10

// TalentState is a node with its points and current affordances.
type TalentState struct {
	gate.Talent
	Locked       bool `json:"locked"`
	CanIncrement bool `json:"can_increment"`
	CanDecrement bool `json:"can_decrement"`
}

// TreeState is the derived view of one tree.
type TreeState struct {
	Index       int           `json:"index"`
	Name        string        `json:"name"`
	SpecIcon    string        `json:"spec_icon,omitempty"`
	PointsSpent int           `json:"points_spent"`
	Talents     []TalentState `json:"talents"`
}

// Summary aggregates the build-wide counters shown next to the trees.
type Summary struct {
	TotalPointsSpent   int            `json:"total_points_spent"`
	PointsRemaining    int            `json:"points_remaining"`
	Budget             int            `json:"budget"`
	CurrentLevel       int            `json:"current_level"`
	PointsSpentPerTree map[string]int `json:"points_spent_per_tree"`
	// PrimaryTree is empty until some tree exceeds PrimaryTreeFloor.
	PrimaryTree      string `json:"primary_tree,omitempty"`
	PrimaryTreeIndex int    `json:"primary_tree_index"`
}

// OrderItem is one entry of the talent order: the Nth point spent in a node.
type OrderItem struct {
	Tree        int    `json:"tree"`
	NodeID      string `json:"node_id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Rank        int    `json:"rank"`
	Description string `json:"description,omitempty"`
}

// Distribution returns every tree with its points and affordances.
func (e *Engine) Distribution() []TreeState {
	remaining := e.PointsRemaining()
	out := make([]TreeState, len(e.trees))
	for i, t := range e.trees {
		talents := e.Talents(i)
		states := make([]TalentState, len(talents))
		for j, talent := range talents {
			locked := gate.IsLocked(talent, talents)
			states[j] = TalentState{
				Talent:       talent,
				Locked:       locked,
				CanIncrement: gate.CanIncrement(talent, remaining, locked),
				CanDecrement: gate.CanSafelyDecrement(talent, talents),
			}
		}
		out[i] = TreeState{
			Index:       i,
			Name:        t.Name,
			SpecIcon:    t.SpecIcon,
			PointsSpent: gate.PointsSpent(talents),
			Talents:     states,
		}
	}
	return out
}

// Summary returns the build-wide counters.
func (e *Engine) Summary() Summary {
	spent := e.TotalPointsSpent()
	summary := Summary{
		TotalPointsSpent:   spent,
		PointsRemaining:    e.PointsRemaining(),
		Budget:             e.budget,
		CurrentLevel:       e.schedule.LevelFor(spent),
		PointsSpentPerTree: e.PointsSpentPerTree(),
		PrimaryTreeIndex:   -1,
	}
	best := PrimaryTreeFloor
	for i, t := range e.trees {
		if points := e.PointsSpentInTree(i); points > best {
			best = points
			summary.PrimaryTree = t.Name
			summary.PrimaryTreeIndex = i
		}
	}
	return summary
}

// TalentOrder lists every point in spend order with the rank it granted.
func (e *Engine) TalentOrder() []OrderItem {
	return Order(e.history, e.trees)
}

// Order expands a history into ranked order items. Ranks count per node
// across the whole history.
func Order(h History, trees []tree.Tree) []OrderItem {
	items := make([]OrderItem, 0, len(h))
	Replay(h, trees, func(evt Event, nodeIdx, rank int) {
		node := trees[evt.Tree].Talents[nodeIdx]
		items = append(items, OrderItem{
			Tree:        evt.Tree,
			NodeID:      node.ID,
			Name:        node.Name,
			Icon:        node.Icon,
			Rank:        rank,
			Description: node.RankDescription(rank),
		})
	})
	return items
}
