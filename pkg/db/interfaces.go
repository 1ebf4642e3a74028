package db

import "context"

// SnapshotStore defines the interface for roster snapshot operations
type SnapshotStore interface {
	// GetLatestSnapshot returns the newest snapshot, or nil if none exist
	GetLatestSnapshot(ctx context.Context) (*RosterSnapshot, error)
	InsertSnapshot(ctx context.Context, snapshot *RosterSnapshot) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	SnapshotStore
	ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error)
	Close()
}
