// Package storage defines persistence contracts for the talents service.
package storage

import (
	"context"
	"time"
)

// SavedBuild is a share path stored under a short-lived public id.
type SavedBuild struct {
	ID        string
	Class     string
	Path      string
	CreatedAt time.Time
}

// SavedBuildStore persists shared builds.
type SavedBuildStore interface {
	PutSavedBuild(ctx context.Context, build SavedBuild) error
	// GetSavedBuild returns an error with code NOT_FOUND for unknown ids.
	GetSavedBuild(ctx context.Context, id string) (SavedBuild, error)
}

// Store is a composite interface for talents storage concerns.
type Store interface {
	SavedBuildStore
	Close() error
}
