package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/louisbranch/talentcalc/internal/platform/errors"
	sqlitemigrate "github.com/louisbranch/talentcalc/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/talentcalc/internal/services/talents/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talents.db")
	for i := 0; i < 2; i++ {
		store, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		applied, err := sqlitemigrate.Applied(context.Background(), store.sqlDB)
		if err != nil {
			t.Fatalf("applied: %v", err)
		}
		if len(applied) != 2 {
			t.Fatalf("applied = %v, want 2 migrations", applied)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestPutAndGetSavedBuild(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := storage.SavedBuild{ID: "b-1", Class: "mage", Path: "/mage/0aaa", CreatedAt: createdAt}
	if err := store.PutSavedBuild(ctx, want); err != nil {
		t.Fatalf("put saved build: %v", err)
	}

	got, err := store.GetSavedBuild(ctx, "b-1")
	if err != nil {
		t.Fatalf("get saved build: %v", err)
	}
	if got.ID != want.ID || got.Class != want.Class || got.Path != want.Path {
		t.Fatalf("saved build = %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at = %s, want %s", got.CreatedAt, createdAt)
	}
}

func TestPutSavedBuildDefaultsTime(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if err := store.PutSavedBuild(ctx, storage.SavedBuild{ID: "b-2", Class: "rogue", Path: "/rogue"}); err != nil {
		t.Fatalf("put saved build: %v", err)
	}
	got, err := store.GetSavedBuild(ctx, "b-2")
	if err != nil {
		t.Fatalf("get saved build: %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestPutSavedBuildValidation(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		build storage.SavedBuild
	}{
		{name: "missing id", build: storage.SavedBuild{Path: "/mage"}},
		{name: "missing path", build: storage.SavedBuild{ID: "x"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.PutSavedBuild(ctx, tc.build); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestPutSavedBuildRejectsDuplicateID(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	build := storage.SavedBuild{ID: "dup", Class: "mage", Path: "/mage"}
	if err := store.PutSavedBuild(ctx, build); err != nil {
		t.Fatalf("put saved build: %v", err)
	}
	if err := store.PutSavedBuild(ctx, build); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestGetSavedBuildNotFound(t *testing.T) {
	store := openTempStore(t)

	_, err := store.GetSavedBuild(context.Background(), "missing")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestCanceledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.PutSavedBuild(ctx, storage.SavedBuild{ID: "c", Path: "/mage"}); err == nil {
		t.Fatal("expected context error on put")
	}
	if _, err := store.GetSavedBuild(ctx, "c"); err == nil {
		t.Fatal("expected context error on get")
	}
}

func TestNilStoreClose(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talents.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil && err != sql.ErrConnDone {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
