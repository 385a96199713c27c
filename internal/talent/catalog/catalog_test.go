package catalog

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/talentcalc/internal/platform/errors"
	"github.com/louisbranch/talentcalc/internal/talent/tree"
)

func TestShippedClassesLoad(t *testing.T) {
	loader := NewLoader(nil)
	shipped := map[string]string{
		"warrior": "Fury",
		"druid":   "Balance",
		"priest":  "Holy",
		"shaman":  "Elemental",
	}
	for _, className := range Classes() {
		trees, err := loader.Load(context.Background(), className)
		if err != nil {
			t.Fatalf("load %s: %v", className, err)
		}
		want, ok := shipped[className]
		if !ok {
			if len(trees) != 0 {
				t.Fatalf("%s: expected no trees, got %d", className, len(trees))
			}
			continue
		}
		if len(trees) != 1 || trees[0].Name != want {
			t.Fatalf("%s: unexpected trees %+v", className, trees)
		}
		if len(trees[0].Talents) == 0 {
			t.Fatalf("%s: expected talents", className)
		}
		if err := tree.ValidateTree(trees[0]); err != nil {
			t.Fatalf("%s: %v", className, err)
		}
	}
}

func TestLoadNormalizesName(t *testing.T) {
	trees, err := NewLoader(nil).Load(context.Background(), "  Warrior ")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(trees) != 1 {
		t.Fatalf("trees = %d", len(trees))
	}
}

func TestLoadUnknownClass(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "necromancer")
	if !apperrors.HasCode(err, apperrors.CodeUnknownClass) {
		t.Fatalf("expected unknown class error, got %v", err)
	}
	domainErr, _ := apperrors.As(err)
	if domainErr.Metadata["Class"] != "necromancer" {
		t.Fatalf("metadata = %v", domainErr.Metadata)
	}
}

func TestLoadReturnsCopies(t *testing.T) {
	loader := NewLoader(nil)
	first, err := loader.Load(context.Background(), "warrior")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first[0].Talents[0].MaxPoints = 99
	first[0].Talents[0].Ranks[0] = "changed"

	second, err := loader.Load(context.Background(), "warrior")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if second[0].Talents[0].MaxPoints == 99 || second[0].Talents[0].Ranks[0] == "changed" {
		t.Fatal("cache was mutated through a returned copy")
	}
}

func TestLoadHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader(nil).Load(ctx, "warrior"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLoadInvalidData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed yaml", data: "class: [warrior"},
		{name: "class mismatch", data: "class: druid\ntrees: []\n"},
		{name: "invalid tree", data: `class: warrior
trees:
  - name: Fury
    talents:
      - id: a
        name: A
        row: 0
        col: 0
        max_points: 2
        ranks: ["one"]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(fstest.MapFS{
				"data/warrior.yaml": &fstest.MapFile{Data: []byte(tt.data)},
			})
			_, err := loader.Load(context.Background(), "warrior")
			if !apperrors.HasCode(err, apperrors.CodeInvalidClassData) {
				t.Fatalf("expected invalid data error, got %v", err)
			}
			if cached(loader, "warrior") {
				t.Fatal("failed load must not be cached")
			}
		})
	}
}

func TestConcurrentLoadsShareResult(t *testing.T) {
	loader := NewLoader(nil)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trees, err := loader.Load(context.Background(), "druid")
			if err == nil && len(trees) != 1 {
				err = context.DeadlineExceeded
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent load: %v", err)
		}
	}
	if !cached(loader, "druid") {
		t.Fatal("expected druid cached")
	}
}

func cached(l *Loader, name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[name]
	return ok
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("WARRIOR", language.English); got != "Warrior" {
		t.Fatalf("DisplayName = %q", got)
	}
	if !IsKnown("Mage") || IsKnown("bard") {
		t.Fatal("unexpected IsKnown result")
	}
	classes := Classes()
	classes[0] = "changed"
	if Classes()[0] != "warrior" {
		t.Fatal("Classes must return a copy")
	}
}
