package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/pkg/db"
)

// GetLatestSnapshot loads the newest snapshot with all of its rows.
// Returns nil when nothing has been saved yet.
func (d *DB) GetLatestSnapshot(ctx context.Context) (*db.RosterSnapshot, error) {
	var snap db.RosterSnapshot
	err := d.pool.QueryRow(ctx, `
		SELECT id, created_at, source
		FROM roster_snapshot
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`).Scan(&snap.ID, &snap.CreatedAt, &snap.Source)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	if snap.Entities, err = d.getSnapshotEntities(ctx, snap.ID); err != nil {
		return nil, err
	}
	if snap.Groups, err = d.getSnapshotGroups(ctx, snap.ID); err != nil {
		return nil, err
	}
	if snap.Assignments, err = d.getSnapshotAssignments(ctx, snap.ID); err != nil {
		return nil, err
	}

	d.logger.Debug("Loaded snapshot",
		zap.String("snapshot_id", snap.ID),
		zap.Int("entities", len(snap.Entities)),
		zap.Int("groups", len(snap.Groups)))

	return &snap, nil
}

// ListSnapshots returns snapshot headers, newest first
func (d *DB) ListSnapshots(ctx context.Context, limit int) ([]db.Snapshot, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, created_at, source
		FROM roster_snapshot
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []db.Snapshot
	for rows.Next() {
		var s db.Snapshot
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Source); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

func (d *DB) getSnapshotEntities(ctx context.Context, snapshotID string) ([]db.SnapshotEntity, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT entity_id, position, payload
		FROM snapshot_entity
		WHERE snapshot_id = $1
		ORDER BY position
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot entities: %w", err)
	}
	defer rows.Close()

	var entities []db.SnapshotEntity
	for rows.Next() {
		e := db.SnapshotEntity{SnapshotID: snapshotID}
		if err := rows.Scan(&e.EntityID, &e.Position, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot entity: %w", err)
		}
		entities = append(entities, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot entities: %w", err)
	}

	return entities, nil
}

func (d *DB) getSnapshotGroups(ctx context.Context, snapshotID string) ([]db.SnapshotGroup, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT group_id, leader_id, capacity, position
		FROM snapshot_group
		WHERE snapshot_id = $1
		ORDER BY position
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot groups: %w", err)
	}
	defer rows.Close()

	var groups []db.SnapshotGroup
	for rows.Next() {
		g := db.SnapshotGroup{SnapshotID: snapshotID}
		var leaderID *string
		if err := rows.Scan(&g.GroupID, &leaderID, &g.Capacity, &g.Position); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot group: %w", err)
		}
		if leaderID != nil {
			g.LeaderID = *leaderID
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot groups: %w", err)
	}

	return groups, nil
}

func (d *DB) getSnapshotAssignments(ctx context.Context, snapshotID string) ([]db.SnapshotAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT entity_id, group_id, position
		FROM snapshot_assignment
		WHERE snapshot_id = $1
		ORDER BY position
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.SnapshotAssignment
	for rows.Next() {
		a := db.SnapshotAssignment{SnapshotID: snapshotID}
		var groupID *string
		if err := rows.Scan(&a.EntityID, &groupID, &a.Position); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot assignment: %w", err)
		}
		if groupID != nil {
			a.GroupID = *groupID
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot assignments: %w", err)
	}

	return assignments, nil
}

// InsertSnapshot writes a snapshot and all of its rows in one transaction
func (d *DB) InsertSnapshot(ctx context.Context, snapshot *db.RosterSnapshot) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO roster_snapshot (id, created_at, source)
		VALUES ($1, $2, $3)
	`, snapshot.ID, snapshot.CreatedAt.UTC(), snapshot.Source)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for _, e := range snapshot.Entities {
		_, err := tx.Exec(ctx, `
			INSERT INTO snapshot_entity (snapshot_id, entity_id, position, payload)
			VALUES ($1, $2, $3, $4)
		`, snapshot.ID, e.EntityID, e.Position, e.Payload)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot entity %s: %w", e.EntityID, err)
		}
	}

	for _, g := range snapshot.Groups {
		_, err := tx.Exec(ctx, `
			INSERT INTO snapshot_group (snapshot_id, group_id, leader_id, capacity, position)
			VALUES ($1, $2, $3, $4, $5)
		`, snapshot.ID, g.GroupID, nullable(g.LeaderID), g.Capacity, g.Position)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot group %s: %w", g.GroupID, err)
		}
	}

	for _, a := range snapshot.Assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO snapshot_assignment (snapshot_id, entity_id, group_id, position)
			VALUES ($1, $2, $3, $4)
		`, snapshot.ID, a.EntityID, nullable(a.GroupID), a.Position)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot assignment %s: %w", a.EntityID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	d.logger.Debug("Inserted snapshot",
		zap.String("snapshot_id", snapshot.ID),
		zap.String("source", snapshot.Source))

	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
