package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/talentcalc/internal/platform/errors"
	sqlitemigrate "github.com/louisbranch/talentcalc/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/talentcalc/internal/services/talents/storage"
	"github.com/louisbranch/talentcalc/internal/services/talents/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// Store provides a SQLite-backed saved-build store.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutSavedBuild persists a saved build. A zero CreatedAt is set to now.
func (s *Store) PutSavedBuild(ctx context.Context, build storage.SavedBuild) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(build.ID) == "" {
		return fmt.Errorf("saved build id is required")
	}
	if strings.TrimSpace(build.Path) == "" {
		return fmt.Errorf("saved build path is required")
	}
	if build.CreatedAt.IsZero() {
		build.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO saved_builds (id, class, path, created_at) VALUES (?, ?, ?, ?)",
		build.ID, build.Class, build.Path, build.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert saved build: %w", err)
	}
	return nil
}

// GetSavedBuild loads a saved build by id.
func (s *Store) GetSavedBuild(ctx context.Context, id string) (storage.SavedBuild, error) {
	if err := ctx.Err(); err != nil {
		return storage.SavedBuild{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.SavedBuild{}, fmt.Errorf("storage is not configured")
	}

	var (
		build     storage.SavedBuild
		createdAt string
	)
	row := s.sqlDB.QueryRowContext(ctx, "SELECT id, class, path, created_at FROM saved_builds WHERE id = ?", id)
	if err := row.Scan(&build.ID, &build.Class, &build.Path, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.SavedBuild{}, apperrors.WithMetadata(apperrors.CodeNotFound, "saved build not found", map[string]string{"ID": id})
		}
		return storage.SavedBuild{}, fmt.Errorf("get saved build: %w", err)
	}
	parsed, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return storage.SavedBuild{}, fmt.Errorf("parse created_at: %w", err)
	}
	build.CreatedAt = parsed
	return build, nil
}

var _ storage.Store = (*Store)(nil)
