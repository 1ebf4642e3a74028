package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/internal/config"
	"github.com/jakechorley/carpool-organizer/pkg/clients/sheetsclient"
	"github.com/jakechorley/carpool-organizer/pkg/core/model"
	"github.com/jakechorley/carpool-organizer/pkg/core/roster"
	"github.com/jakechorley/carpool-organizer/pkg/db"
)

var (
	// ErrNoSnapshot is returned when an operation needs a roster but nothing
	// has been imported yet
	ErrNoSnapshot = errors.New("no roster found, run importRoster first")

	// ErrUnknownGroup is returned when a group ID does not exist
	ErrUnknownGroup = errors.New("unknown group")

	// ErrUnknownEntity is returned when an entity ID does not exist
	ErrUnknownEntity = errors.New("unknown person")
)

// PeopleLister reads people from the roster sheet
type PeopleLister interface {
	ListPeople(spreadsheetID, tab string, schema model.Schema) ([]model.Entity, error)
}

// RosterPublisher writes the roster to a sheet tab
type RosterPublisher interface {
	PublishRoster(spreadsheetID, tab string, export *sheetsclient.RosterExport) error
}

// loadState reads the newest snapshot and rebuilds its roster state
func loadState(ctx context.Context, store db.SnapshotStore, logger *zap.Logger) (roster.State, *db.Snapshot, error) {
	logger.Debug("Fetching latest snapshot")
	snap, err := store.GetLatestSnapshot(ctx)
	if err != nil {
		return roster.State{}, nil, fmt.Errorf("failed to fetch latest snapshot: %w", err)
	}
	if snap == nil {
		return roster.State{}, nil, ErrNoSnapshot
	}

	state, err := snap.State()
	if err != nil {
		return roster.State{}, nil, fmt.Errorf("failed to read snapshot %s: %w", snap.ID, err)
	}

	logger.Debug("Loaded roster",
		zap.String("snapshot_id", snap.ID),
		zap.Int("entities", len(state.Entities)),
		zap.Int("groups", len(state.Groups)),
		zap.Int("unassigned", len(state.Unassigned)))

	return state, &snap.Snapshot, nil
}

// saveState stores state as a new snapshot
func saveState(ctx context.Context, store db.SnapshotStore, logger *zap.Logger, source string, state roster.State) (*db.Snapshot, error) {
	snap, err := db.NewRosterSnapshot(uuid.New().String(), source, time.Now().UTC(), state)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}

	if problems := state.CheckPartition(); len(problems) > 0 {
		logger.Warn("Saving roster with partition problems", zap.Strings("problems", problems))
	}

	if err := store.InsertSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	logger.Debug("Saved snapshot", zap.String("snapshot_id", snap.ID), zap.String("source", source))
	return &snap.Snapshot, nil
}

// reconcileOptions resolves group capacities from the configured size cap.
// With a group sized cap the stored capacity is the explicit group value.
func reconcileOptions(cfg *config.Config) roster.ReconcileOptions {
	schema := cfg.Schema()
	return roster.ReconcileOptions{
		Capacity: func(leader model.Entity, current *int) *int {
			return schema.CapacityFor(&leader, current)
		},
	}
}

func displayName(directory model.Directory, id string) string {
	e, _ := directory.Lookup(id)
	return e.Name
}

func groupName(g model.Group) string {
	switch {
	case g.Leader == nil:
		return g.ID
	case g.Leader.IsPlaceholder():
		return fmt.Sprintf("%s (%s)", g.Leader.Name, g.ID)
	}
	return g.Leader.Name
}

func memberNames(directory model.Directory, ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = displayName(directory, id)
	}
	return names
}
