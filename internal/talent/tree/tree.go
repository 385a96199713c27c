// Package tree defines the static talent tree reference data for a class.
//
// Trees are read-only once loaded: nodes never carry point counts. Point
// allocation lives in the engine and is always derived from spend history.
package tree

// MaxTalentsPerTree bounds a tree so each node maps to a single letter in
// shared build strings.
const MaxTalentsPerTree = 26

// MaxTreesPerClass bounds a class so each tree maps to a single digit in
// shared build strings.
const MaxTreesPerClass = 10

// Requirement names a same-tree node and the minimum points it needs before
// the owning node may receive its first point.
type Requirement struct {
	ID     string `yaml:"id" json:"id" validate:"required"`
	Points int    `yaml:"points" json:"points" validate:"gte=1"`
}

// Node is a single allocatable talent definition.
type Node struct {
	ID        string       `yaml:"id" json:"id" validate:"required"`
	Name      string       `yaml:"name" json:"name" validate:"required"`
	Icon      string       `yaml:"icon" json:"icon,omitempty"`
	Row       int          `yaml:"row" json:"row" validate:"gte=0"`
	Col       int          `yaml:"col" json:"col" validate:"gte=0"`
	MaxPoints int          `yaml:"max_points" json:"max_points" validate:"gte=1,lte=9"`
	Ranks     []string     `yaml:"ranks" json:"ranks"`
	Requires  *Requirement `yaml:"requires,omitempty" json:"requires,omitempty"`
}

// RankDescription returns the description for a 1-based rank, or "" when the
// rank is out of range.
func (n Node) RankDescription(rank int) string {
	if rank < 1 || rank > len(n.Ranks) {
		return ""
	}
	return n.Ranks[rank-1]
}

// Tree is a fixed grid of talent nodes for one specialization.
type Tree struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	SpecIcon string `yaml:"spec_icon" json:"spec_icon,omitempty"`
	Talents  []Node `yaml:"talents" json:"talents" validate:"dive"`
}

// Index returns the array position of the node with the given id.
func (t Tree) Index(id string) (int, bool) {
	for i, node := range t.Talents {
		if node.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Node returns the node with the given id.
func (t Tree) Node(id string) (Node, bool) {
	idx, ok := t.Index(id)
	if !ok {
		return Node{}, false
	}
	return t.Talents[idx], true
}

// Class groups the specialization trees of one playable class.
type Class struct {
	Name  string `yaml:"class" json:"class" validate:"required"`
	Trees []Tree `yaml:"trees" json:"trees" validate:"dive"`
}

// Clone returns a deep copy of trees so callers can never share mutable
// slices with a cache.
func Clone(trees []Tree) []Tree {
	if trees == nil {
		return nil
	}
	out := make([]Tree, len(trees))
	for i, t := range trees {
		talents := make([]Node, len(t.Talents))
		for j, node := range t.Talents {
			node.Ranks = append([]string(nil), node.Ranks...)
			if node.Requires != nil {
				req := *node.Requires
				node.Requires = &req
			}
			talents[j] = node
		}
		t.Talents = talents
		out[i] = t
	}
	return out
}
