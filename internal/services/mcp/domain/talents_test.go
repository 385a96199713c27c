package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/talentcalc/internal/talent/catalog"
	"github.com/louisbranch/talentcalc/internal/talent/tree"
)

type fixedLoader struct{}

func (fixedLoader) Load(_ context.Context, className string) ([]tree.Tree, error) {
	if !catalog.IsKnown(className) {
		return catalog.NewLoader(nil).Load(context.Background(), className)
	}
	return []tree.Tree{{
		Name: "Fury",
		Talents: []tree.Node{
			{ID: "a", Name: "A", Row: 0, Col: 0, MaxPoints: 5, Ranks: make([]string, 5)},
			{ID: "b", Name: "B", Row: 0, Col: 1, MaxPoints: 1, Ranks: make([]string, 1)},
			{ID: "c", Name: "C", Row: 1, Col: 0, MaxPoints: 3, Ranks: make([]string, 3), Requires: &tree.Requirement{ID: "a", Points: 3}},
		},
	}}, nil
}

var testDeps = Dependencies{Loader: fixedLoader{}}

func TestClassesHandler(t *testing.T) {
	_, result, err := ClassesHandler()(context.Background(), nil, ClassesInput{Lang: "pt-BR"})
	if err != nil {
		t.Fatalf("classes: %v", err)
	}
	if len(result.Classes) != len(catalog.Classes()) {
		t.Fatalf("classes = %d, want %d", len(result.Classes), len(catalog.Classes()))
	}
	for _, class := range result.Classes {
		if class.DisplayName == "" {
			t.Fatalf("class %q has no display name", class.Name)
		}
		if class.Default != (class.Name == catalog.DefaultClass) {
			t.Fatalf("default flag wrong for %q", class.Name)
		}
	}
}

func TestBuildShowHandler(t *testing.T) {
	tests := []struct {
		name      string
		input     BuildShowInput
		wantPath  string
		wantSpent int
		wantLine  string
	}{
		{name: "empty path", input: BuildShowInput{}, wantPath: "/warrior", wantLine: "0 of 61 points spent"},
		{name: "order", input: BuildShowInput{Path: "/warrior/0Ac"}, wantPath: "/warrior/0Ac", wantSpent: 6, wantLine: "6 of 61 points spent"},
		{name: "dense", input: BuildShowInput{Path: "/warrior/501", Lang: "pt-BR"}, wantPath: "/warrior/0Ac", wantSpent: 6, wantLine: "6 de 61 pontos gastos"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, result, err := BuildShowHandler(testDeps)(context.Background(), nil, tc.input)
			if err != nil {
				t.Fatalf("show: %v", err)
			}
			if result.Path != tc.wantPath || result.TotalPointsSpent != tc.wantSpent {
				t.Fatalf("result = %s/%d, want %s/%d", result.Path, result.TotalPointsSpent, tc.wantPath, tc.wantSpent)
			}
			if result.Lines.Spent != tc.wantLine {
				t.Fatalf("spent line = %q, want %q", result.Lines.Spent, tc.wantLine)
			}
			if len(result.Order) != tc.wantSpent {
				t.Fatalf("order = %d entries, want %d", len(result.Order), tc.wantSpent)
			}
		})
	}
}

func TestBuildShowUnknownClassIsLocalized(t *testing.T) {
	_, _, err := BuildShowHandler(testDeps)(context.Background(), nil, BuildShowInput{Path: "/bard"})
	if err == nil || !strings.Contains(err.Error(), "bard") {
		t.Fatalf("err = %v, want unknown class message naming bard", err)
	}
}

func TestBuildApplyHandler(t *testing.T) {
	ops := []OpInput{}
	for i := 0; i < 5; i++ {
		ops = append(ops, OpInput{Op: "increment", Node: "a"})
	}
	ops = append(ops,
		OpInput{Op: "increment", Node: "c"},
		OpInput{Op: "decrement", Node: "a"},
	)

	_, result, err := BuildApplyHandler(testDeps)(context.Background(), nil, BuildApplyInput{Path: "/warrior", Ops: ops})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Build.Path != "/warrior/0Ac" {
		t.Fatalf("path = %q, want /warrior/0Ac", result.Build.Path)
	}
	last := result.Results[len(result.Results)-1]
	if last.Accepted || last.Code == "" || last.Message == "" {
		t.Fatalf("expected decrement rejection with code, got %+v", last)
	}
	for _, res := range result.Results[:6] {
		if !res.Accepted {
			t.Fatalf("unexpected rejection %+v", res)
		}
	}
}

func TestBuildApplyRejectsInvalidOps(t *testing.T) {
	tests := []struct {
		name string
		ops  []OpInput
	}{
		{name: "unknown kind", ops: []OpInput{{Op: "explode"}}},
		{name: "missing node", ops: []OpInput{{Op: "increment"}}},
		{name: "negative tree", ops: []OpInput{{Op: "reset_tree", Tree: -1}}},
		{name: "too many", ops: make([]OpInput, maxOps+1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := BuildApplyHandler(testDeps)(context.Background(), nil, BuildApplyInput{Path: "/warrior", Ops: tc.ops})
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBuildValidateHandler(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		wantValid     bool
		wantCanonical bool
		wantIssue     string
	}{
		{name: "canonical", path: "/warrior/0Ac", wantValid: true, wantCanonical: true},
		{name: "dense legacy", path: "/warrior/501", wantIssue: "legacy dense build"},
		{name: "over cap compacts", path: "/warrior/0AAb", wantValid: true},
		{name: "gating broken", path: "/warrior/0c", wantCanonical: true, wantIssue: "breaks tier or prerequisite rules"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, result, err := BuildValidateHandler(testDeps)(context.Background(), nil, BuildValidateInput{Path: tc.path})
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if result.Valid != tc.wantValid {
				t.Fatalf("valid = %v, want %v (issues %v)", result.Valid, tc.wantValid, result.Issues)
			}
			if result.Canonical != tc.wantCanonical {
				t.Fatalf("canonical = %v, want %v (path %q)", result.Canonical, tc.wantCanonical, result.Path)
			}
			if tc.wantIssue != "" && !strings.Contains(strings.Join(result.Issues, "\n"), tc.wantIssue) {
				t.Fatalf("issues = %v, want one containing %q", result.Issues, tc.wantIssue)
			}
		})
	}
}
