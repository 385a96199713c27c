// Package sqlite provides SQLite-backed persistence for saved builds.
package sqlite
