package gate

import (
	"testing"

	"github.com/louisbranch/talentcalc/internal/talent/tree"
)

// exampleNodes returns A (row0 max5), B (row0 max1), C (row1 max3, requires A>=3)
// and D (row0 max5) used to decouple tier checks from prerequisite checks.
func exampleNodes() []tree.Node {
	return []tree.Node{
		{ID: "a", Name: "A", Row: 0, Col: 0, MaxPoints: 5},
		{ID: "b", Name: "B", Row: 0, Col: 1, MaxPoints: 1},
		{ID: "c", Name: "C", Row: 1, Col: 0, MaxPoints: 3, Requires: &tree.Requirement{ID: "a", Points: 3}},
		{ID: "d", Name: "D", Row: 0, Col: 2, MaxPoints: 5},
		{ID: "e", Name: "E", Row: 2, Col: 0, MaxPoints: 1},
	}
}

func talents(points ...int) []Talent {
	return Combine(exampleNodes(), points)
}

func TestTierRequirement(t *testing.T) {
	for row, want := range []int{0, 5, 10, 15} {
		if got := TierRequirement(row); got != want {
			t.Fatalf("TierRequirement(%d) = %d, want %d", row, got, want)
		}
	}
}

func TestCombineMissingPointsAreZero(t *testing.T) {
	all := Combine(exampleNodes(), []int{2})
	if all[0].Points != 2 || all[1].Points != 0 || all[4].Points != 0 {
		t.Fatalf("unexpected combined points: %+v", all)
	}
}

func TestPointsBelow(t *testing.T) {
	all := talents(5, 1, 2, 0, 1)
	if got := PointsBelow(all, 0); got != 0 {
		t.Fatalf("row 0 below = %d, want 0", got)
	}
	if got := PointsBelow(all, 1); got != 6 {
		t.Fatalf("row 1 below = %d, want 6", got)
	}
	if got := PointsBelow(all, 2); got != 8 {
		t.Fatalf("row 2 below = %d, want 8", got)
	}
	if got := PointsSpent(all); got != 9 {
		t.Fatalf("spent = %d, want 9", got)
	}
}

func TestMeetsPrerequisite(t *testing.T) {
	tests := []struct {
		name   string
		points []int
		node   func([]Talent) Talent
		want   bool
	}{
		{name: "no requirement", points: []int{0}, node: func(all []Talent) Talent { return all[0] }, want: true},
		{name: "below threshold", points: []int{2}, node: func(all []Talent) Talent { return all[2] }, want: false},
		{name: "at threshold", points: []int{3}, node: func(all []Talent) Talent { return all[2] }, want: true},
		{
			name:   "missing reference fails closed",
			points: []int{5},
			node: func(all []Talent) Talent {
				c := all[2]
				c.Requires = &tree.Requirement{ID: "gone", Points: 1}
				return c
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := talents(tt.points...)
			if got := MeetsPrerequisite(tt.node(all), all); got != tt.want {
				t.Fatalf("MeetsPrerequisite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsLocked(t *testing.T) {
	// Five points in A unlock C by tier and by prerequisite.
	all := talents(5, 0, 0)
	if IsLocked(all[2], all) {
		t.Fatal("expected C unlocked after five points in A")
	}

	all = talents(2, 1, 0, 2)
	if !IsLocked(all[2], all) {
		t.Fatal("expected C locked: A below prerequisite threshold")
	}
	if got := LockReason(all[2], all); got != ReasonPrerequisiteLocked {
		t.Fatalf("lock reason = %q, want %q", got, ReasonPrerequisiteLocked)
	}

	all = talents(3, 1, 0)
	if got := LockReason(all[2], all); got != ReasonTierLocked {
		t.Fatalf("lock reason = %q, want %q", got, ReasonTierLocked)
	}

	// A node that already holds points is never locked.
	all = talents(3, 1, 1)
	if IsLocked(all[2], all) {
		t.Fatal("allocated node reported locked")
	}

	// Row 0 nodes are never tier locked.
	all = talents()
	if IsLocked(all[0], all) {
		t.Fatal("row 0 node reported locked")
	}
}

func TestCanIncrement(t *testing.T) {
	all := talents(5, 0, 0)
	tests := []struct {
		name      string
		talent    Talent
		remaining int
		locked    bool
		want      Reason
	}{
		{name: "allowed", talent: all[1], remaining: 1, want: ReasonNone},
		{name: "locked", talent: all[1], remaining: 1, locked: true, want: ReasonTierLocked},
		{name: "max rank", talent: all[0], remaining: 10, want: ReasonMaxRank},
		{name: "no budget", talent: all[1], remaining: 0, want: ReasonNoPointsRemaining},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IncrementReason(tt.talent, tt.remaining, tt.locked); got != tt.want {
				t.Fatalf("IncrementReason() = %q, want %q", got, tt.want)
			}
			if got := CanIncrement(tt.talent, tt.remaining, tt.locked); got != (tt.want == ReasonNone) {
				t.Fatalf("CanIncrement() = %v", got)
			}
		})
	}
}

func TestCanSafelyDecrementPrerequisiteBoundary(t *testing.T) {
	// D carries the tier so only the prerequisite of C constrains A.
	all := talents(3, 0, 1, 5)
	if CanSafelyDecrement(all[0], all) {
		t.Fatal("expected A at prerequisite boundary to be blocked")
	}
	if got := DecrementReason(all[0], all); got != ReasonDependentRequires {
		t.Fatalf("reason = %q, want %q", got, ReasonDependentRequires)
	}

	all = talents(4, 0, 1, 5)
	if !CanSafelyDecrement(all[0], all) {
		t.Fatal("expected A above prerequisite boundary to be decrementable")
	}
}

func TestCanSafelyDecrementTierCascade(t *testing.T) {
	// B has no dependents, but its point keeps row 1 unlocked.
	all := talents(4, 1, 1)
	if CanSafelyDecrement(all[1], all) {
		t.Fatal("expected B to be blocked by the row 1 tier requirement")
	}
	if got := DecrementReason(all[1], all); got != ReasonTierCascade {
		t.Fatalf("reason = %q, want %q", got, ReasonTierCascade)
	}

	// Row 2 needs ten points below; dropping D strands E even though E
	// depends on nothing.
	all = talents(5, 0, 3, 2, 1)
	if CanSafelyDecrement(all[3], all) {
		t.Fatal("expected D to be blocked by E's tier requirement")
	}
	all = talents(5, 1, 3, 2, 1)
	if !CanSafelyDecrement(all[3], all) {
		t.Fatal("expected D to be decrementable with spare points below row 2")
	}
}

func TestCanSafelyDecrementEdges(t *testing.T) {
	all := talents(0, 1)
	if CanSafelyDecrement(all[0], all) {
		t.Fatal("node at zero points must never be decrementable")
	}
	if got := DecrementReason(all[0], all); got != ReasonNoPointsSpent {
		t.Fatalf("reason = %q, want %q", got, ReasonNoPointsSpent)
	}
	if !CanSafelyDecrement(all[1], all) {
		t.Fatal("expected lone row 0 point to be decrementable")
	}
	stranger := Talent{Node: tree.Node{ID: "x", MaxPoints: 1}, Points: 1}
	if CanSafelyDecrement(stranger, all) {
		t.Fatal("node outside the tree must not be decrementable")
	}
}

func TestDecrementDoesNotMutateInput(t *testing.T) {
	all := talents(5, 0, 1)
	_ = CanSafelyDecrement(all[0], all)
	if all[0].Points != 5 {
		t.Fatalf("input mutated: A = %d", all[0].Points)
	}
}

func TestTreeValid(t *testing.T) {
	if !TreeValid(talents(5, 0, 1)) {
		t.Fatal("expected valid tree")
	}
	if TreeValid(talents(2, 0, 1)) {
		t.Fatal("expected invalid tree: C allocated with A=2")
	}
}
