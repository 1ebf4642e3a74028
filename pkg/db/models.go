package db

import "time"

// Snapshot sources
const (
	SourceImport      = "import"
	SourceQuickAssign = "quickAssign"
	SourceSmartAssign = "smartAssign"
	SourceAssign      = "assign"
	SourceUnassign    = "unassign"
	SourceCapacity    = "setCapacity"
)

// Snapshot is the header record of one saved roster state. Snapshots are
// append-only; the newest is the current roster.
type Snapshot struct {
	ID        string
	CreatedAt time.Time
	Source    string
}

// SnapshotEntity is one person in a snapshot. Payload is the JSON encoded
// entity without its ID.
type SnapshotEntity struct {
	SnapshotID string
	EntityID   string
	Position   int
	Payload    []byte
}

// SnapshotGroup is one group in a snapshot. LeaderID is empty for
// leaderless groups and Capacity nil for unlimited groups.
type SnapshotGroup struct {
	SnapshotID string
	GroupID    string
	LeaderID   string
	Capacity   *int
	Position   int
}

// SnapshotAssignment places an entity in a group, or in unassigned when
// GroupID is empty. Position orders entities within the same group.
type SnapshotAssignment struct {
	SnapshotID string
	EntityID   string
	GroupID    string
	Position   int
}

// RosterSnapshot is a snapshot with all of its rows
type RosterSnapshot struct {
	Snapshot
	Entities    []SnapshotEntity
	Groups      []SnapshotGroup
	Assignments []SnapshotAssignment
}
