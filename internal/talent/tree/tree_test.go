package tree

import (
	"strings"
	"testing"
)

func ranks(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "rank"
	}
	return out
}

func sampleTree() Tree {
	return Tree{
		Name: "Fury",
		Talents: []Node{
			{ID: "a", Name: "A", Row: 0, Col: 0, MaxPoints: 5, Ranks: ranks(5)},
			{ID: "b", Name: "B", Row: 0, Col: 1, MaxPoints: 1, Ranks: ranks(1)},
			{ID: "c", Name: "C", Row: 1, Col: 0, MaxPoints: 3, Ranks: ranks(3), Requires: &Requirement{ID: "a", Points: 3}},
		},
	}
}

func TestTreeIndexAndNode(t *testing.T) {
	tr := sampleTree()
	idx, ok := tr.Index("c")
	if !ok || idx != 2 {
		t.Fatalf("expected c at index 2, got %d %v", idx, ok)
	}
	if _, ok := tr.Index("missing"); ok {
		t.Fatal("expected missing node to be absent")
	}
	node, ok := tr.Node("b")
	if !ok || node.Name != "B" {
		t.Fatalf("expected node B, got %+v", node)
	}
}

func TestRankDescription(t *testing.T) {
	node := Node{Ranks: []string{"one", "two"}}
	if got := node.RankDescription(2); got != "two" {
		t.Fatalf("expected rank 2 description, got %q", got)
	}
	if got := node.RankDescription(0); got != "" {
		t.Fatalf("expected empty description for rank 0, got %q", got)
	}
	if got := node.RankDescription(3); got != "" {
		t.Fatalf("expected empty description past max, got %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	trees := []Tree{sampleTree()}
	cloned := Clone(trees)
	cloned[0].Talents[2].Requires.Points = 1
	cloned[0].Talents[0].Ranks[0] = "changed"
	cloned[0].Talents[1].Name = "changed"

	if trees[0].Talents[2].Requires.Points != 3 {
		t.Fatal("requirement shared between clone and source")
	}
	if trees[0].Talents[0].Ranks[0] != "rank" {
		t.Fatal("ranks shared between clone and source")
	}
	if trees[0].Talents[1].Name != "B" {
		t.Fatal("talents shared between clone and source")
	}
	if Clone(nil) != nil {
		t.Fatal("expected nil clone of nil")
	}
}

func TestValidateTree(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Tree)
		wantErr string
	}{
		{name: "valid", mutate: func(*Tree) {}},
		{
			name:    "duplicate id",
			mutate:  func(tr *Tree) { tr.Talents[1].ID = "a" },
			wantErr: "duplicate node id",
		},
		{
			name:    "shared cell",
			mutate:  func(tr *Tree) { tr.Talents[1].Col = 0 },
			wantErr: "share row 0 col 0",
		},
		{
			name:    "rank count mismatch",
			mutate:  func(tr *Tree) { tr.Talents[0].Ranks = ranks(4) },
			wantErr: "4 rank descriptions for 5 max points",
		},
		{
			name:    "unknown requirement",
			mutate:  func(tr *Tree) { tr.Talents[2].Requires.ID = "zzz" },
			wantErr: "requires unknown node",
		},
		{
			name:    "requirement above cap",
			mutate:  func(tr *Tree) { tr.Talents[2].Requires = &Requirement{ID: "b", Points: 2} },
			wantErr: "which caps at 1",
		},
		{
			name:    "self requirement",
			mutate:  func(tr *Tree) { tr.Talents[0].Requires = &Requirement{ID: "a", Points: 1} },
			wantErr: "requires itself",
		},
		{
			name: "cycle",
			mutate: func(tr *Tree) {
				tr.Talents[0].Requires = &Requirement{ID: "c", Points: 1}
			},
			wantErr: "requirement cycle",
		},
		{
			name:    "zero max points",
			mutate:  func(tr *Tree) { tr.Talents[1].MaxPoints = 0; tr.Talents[1].Ranks = nil },
			wantErr: "MaxPoints",
		},
		{
			name:    "missing tree name",
			mutate:  func(tr *Tree) { tr.Name = " " },
			wantErr: "tree name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Clone([]Tree{sampleTree()})[0]
			tt.mutate(&tr)
			err := ValidateTree(tr)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid tree, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateTreeTooManyTalents(t *testing.T) {
	tr := Tree{Name: "Wide"}
	for i := 0; i <= MaxTalentsPerTree; i++ {
		tr.Talents = append(tr.Talents, Node{ID: string(rune('a' + i%26)) + "x", Name: "n", Row: i / 4, Col: i % 4, MaxPoints: 1, Ranks: ranks(1)})
	}
	if err := ValidateTree(tr); err == nil || !strings.Contains(err.Error(), "exceeds limit") {
		t.Fatalf("expected limit error, got %v", err)
	}
}

func TestValidateClass(t *testing.T) {
	class := Class{Name: "warrior", Trees: []Tree{sampleTree()}}
	if err := Validate(class); err != nil {
		t.Fatalf("expected valid class, got %v", err)
	}

	class.Name = ""
	if err := Validate(class); err == nil {
		t.Fatal("expected error for missing class name")
	}

	many := Class{Name: "many"}
	for i := 0; i <= MaxTreesPerClass; i++ {
		many.Trees = append(many.Trees, sampleTree())
	}
	if err := Validate(many); err == nil || !strings.Contains(err.Error(), "exceeds limit") {
		t.Fatalf("expected tree limit error, got %v", err)
	}
}

func TestRequirementDepth(t *testing.T) {
	tr := sampleTree()
	tr.Talents = append(tr.Talents, Node{ID: "d", Name: "D", Row: 2, Col: 0, MaxPoints: 1, Ranks: ranks(1), Requires: &Requirement{ID: "c", Points: 1}})
	depths := RequirementDepth(tr)
	want := map[string]int{"a": 0, "b": 0, "c": 1, "d": 2}
	for id, depth := range want {
		if depths[id] != depth {
			t.Fatalf("depth of %s = %d, want %d", id, depths[id], depth)
		}
	}
}
