// Package gate evaluates tier and prerequisite gating for talent nodes.
//
// Every function is pure: inputs are never mutated and results depend only
// on the node and the point distribution of its own tree.
package gate

import "github.com/louisbranch/talentcalc/internal/talent/tree"

// PointsPerTier is the number of lower-row points each row requires.
const PointsPerTier = 5

// Talent pairs a node definition with its current point count.
type Talent struct {
	tree.Node
	Points int `json:"points"`
}

// Reason identifies why a node cannot change rank.
type Reason string

const (
	// ReasonNone means the change is allowed.
	ReasonNone Reason = ""
	// ReasonTierLocked means lower rows do not hold enough points.
	ReasonTierLocked Reason = "TIER_LOCKED"
	// ReasonPrerequisiteLocked means the required node is below its threshold.
	ReasonPrerequisiteLocked Reason = "PREREQUISITE_LOCKED"
	// ReasonMaxRank means the node is already at its rank cap.
	ReasonMaxRank Reason = "MAX_RANK"
	// ReasonNoPointsRemaining means the global budget is exhausted.
	ReasonNoPointsRemaining Reason = "NO_POINTS_REMAINING"
	// ReasonNoPointsSpent means the node has nothing to remove.
	ReasonNoPointsSpent Reason = "NO_POINTS_SPENT"
	// ReasonDependentRequires means a dependent node would lose its prerequisite.
	ReasonDependentRequires Reason = "DEPENDENT_REQUIRES"
	// ReasonTierCascade means removing the point would strand a higher row.
	ReasonTierCascade Reason = "TIER_CASCADE"
)

// Combine builds the talent view of one tree from its nodes and points.
// Missing point entries count as zero.
func Combine(nodes []tree.Node, points []int) []Talent {
	out := make([]Talent, len(nodes))
	for i, node := range nodes {
		out[i] = Talent{Node: node}
		if i < len(points) {
			out[i].Points = points[i]
		}
	}
	return out
}

// TierRequirement returns how many points must be spent in strictly lower
// rows before a node on row may receive its first point.
func TierRequirement(row int) int {
	return row * PointsPerTier
}

// PointsBelow sums the points spent in rows strictly below row.
func PointsBelow(all []Talent, row int) int {
	total := 0
	for _, t := range all {
		if t.Row < row {
			total += t.Points
		}
	}
	return total
}

// PointsSpent sums every point in the tree.
func PointsSpent(all []Talent) int {
	total := 0
	for _, t := range all {
		total += t.Points
	}
	return total
}

// MeetsPrerequisite reports whether the node's requirement is satisfied.
// A requirement naming a node that is not in the tree fails closed.
func MeetsPrerequisite(t Talent, all []Talent) bool {
	if t.Requires == nil {
		return true
	}
	for _, other := range all {
		if other.ID == t.Requires.ID {
			return other.Points >= t.Requires.Points
		}
	}
	return false
}

// MeetsTier reports whether lower rows hold enough points for the node's row.
func MeetsTier(t Talent, all []Talent) bool {
	return PointsBelow(all, t.Row) >= TierRequirement(t.Row)
}

// IsLocked reports whether a node with no points cannot receive its first
// point. Nodes that already hold points are never locked.
func IsLocked(t Talent, all []Talent) bool {
	return LockReason(t, all) != ReasonNone
}

// LockReason explains why IsLocked is true, tier first.
func LockReason(t Talent, all []Talent) Reason {
	if t.Points > 0 {
		return ReasonNone
	}
	if !MeetsTier(t, all) {
		return ReasonTierLocked
	}
	if !MeetsPrerequisite(t, all) {
		return ReasonPrerequisiteLocked
	}
	return ReasonNone
}

// CanIncrement reports whether one more point may be granted to the node.
func CanIncrement(t Talent, pointsRemaining int, locked bool) bool {
	return IncrementReason(t, pointsRemaining, locked) == ReasonNone
}

// IncrementReason explains why CanIncrement is false. The lock reason is
// reported as ReasonTierLocked when the caller only knows the boolean.
func IncrementReason(t Talent, pointsRemaining int, locked bool) Reason {
	switch {
	case locked:
		return ReasonTierLocked
	case t.Points >= t.MaxPoints:
		return ReasonMaxRank
	case pointsRemaining <= 0:
		return ReasonNoPointsRemaining
	default:
		return ReasonNone
	}
}

// CanSafelyDecrement reports whether removing one point from the node keeps
// every other allocated node in the tree valid.
func CanSafelyDecrement(t Talent, all []Talent) bool {
	return DecrementReason(t, all) == ReasonNone
}

// DecrementReason simulates removing one point from the node and returns
// why the resulting tree would be invalid. The simulation re-validates the
// whole tree since dropping below a tier threshold can strand nodes that do
// not depend on the decremented node at all.
func DecrementReason(t Talent, all []Talent) Reason {
	if t.Points <= 0 {
		return ReasonNoPointsSpent
	}
	simulated := make([]Talent, len(all))
	copy(simulated, all)
	found := false
	for i := range simulated {
		if simulated[i].ID == t.ID {
			simulated[i].Points--
			found = true
			break
		}
	}
	if !found {
		return ReasonNoPointsSpent
	}
	return invalidReason(simulated)
}

// TreeValid reports whether every allocated node satisfies its tier
// requirement and prerequisite.
func TreeValid(all []Talent) bool {
	return invalidReason(all) == ReasonNone
}

func invalidReason(all []Talent) Reason {
	for _, other := range all {
		if other.Points <= 0 {
			continue
		}
		if !MeetsPrerequisite(other, all) {
			return ReasonDependentRequires
		}
	}
	for _, other := range all {
		if other.Points <= 0 {
			continue
		}
		if !MeetsTier(other, all) {
			return ReasonTierCascade
		}
	}
	return ReasonNone
}
