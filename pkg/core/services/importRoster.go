package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/internal/config"
	"github.com/jakechorley/carpool-organizer/pkg/core/model"
	"github.com/jakechorley/carpool-organizer/pkg/core/roster"
	"github.com/jakechorley/carpool-organizer/pkg/db"
)

// ImportResult represents the result of importing the roster sheet
type ImportResult struct {
	Snapshot *db.Snapshot
	State    roster.State

	Leaders    int
	Assignable int

	// Added and Removed list entity IDs compared with the previous snapshot
	Added   []string
	Removed []string
}

// ImportRoster reads people from the roster sheet and reconciles them with
// the latest snapshot. Existing placements survive; people who left the
// sheet are dropped and new people start unassigned.
func ImportRoster(
	ctx context.Context,
	store db.SnapshotStore,
	people PeopleLister,
	cfg *config.Config,
	logger *zap.Logger,
) (*ImportResult, error) {
	logger.Debug("Fetching people from roster sheet", zap.String("tab", cfg.PeopleTab))
	entities, err := people.ListPeople(cfg.RosterSheetID, cfg.PeopleTab, cfg.Schema())
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}

	var leaders, assignable []model.Entity
	for _, e := range entities {
		if e.Leader {
			leaders = append(leaders, e)
		} else {
			assignable = append(assignable, e)
		}
	}
	logger.Debug("Fetched people",
		zap.Int("leaders", len(leaders)),
		zap.Int("assignable", len(assignable)))

	previous, _, err := loadState(ctx, store, logger)
	if errors.Is(err, ErrNoSnapshot) {
		logger.Info("No existing roster found, starting fresh")
		previous = roster.NewState()
	} else if err != nil {
		return nil, err
	}

	next := roster.Reconcile(assignable, leaders, previous, reconcileOptions(cfg))

	snap, err := saveState(ctx, store, logger, db.SourceImport, next)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Snapshot:   snap,
		State:      next,
		Leaders:    len(leaders),
		Assignable: len(assignable),
		Added:      missingFrom(next.Entities, previous.Entities),
		Removed:    missingFrom(previous.Entities, next.Entities),
	}

	logger.Info("Roster imported",
		zap.String("snapshot_id", snap.ID),
		zap.Int("leaders", result.Leaders),
		zap.Int("assignable", result.Assignable),
		zap.Int("added", len(result.Added)),
		zap.Int("removed", len(result.Removed)))

	return result, nil
}

// missingFrom returns the sorted IDs in a that are not in b
func missingFrom(a, b model.Directory) []string {
	var ids []string
	for id := range a {
		if _, ok := b[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
