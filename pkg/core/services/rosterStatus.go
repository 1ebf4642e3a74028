package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/internal/config"
	"github.com/jakechorley/carpool-organizer/pkg/core/constraints"
	"github.com/jakechorley/carpool-organizer/pkg/core/model"
	"github.com/jakechorley/carpool-organizer/pkg/db"
)

// MemberView is a person as shown in listings
type MemberView struct {
	ID   string
	Name string
}

// GroupStatus is one group with its occupancy and warnings
type GroupStatus struct {
	ID         string
	LeaderName string
	Capacity   *int
	SeatsLeft  int
	Members    []MemberView
	Warnings   []string
}

// Unlimited returns true if the group has no capacity
func (g GroupStatus) Unlimited() bool {
	return g.Capacity == nil
}

// StatusResult represents the current roster
type StatusResult struct {
	Snapshot   *db.Snapshot
	Groups     []GroupStatus
	Unassigned []MemberView

	// Problems lists partition problems; empty for a healthy roster
	Problems []string
}

// RosterStatus lists groups and unassigned people from the latest snapshot.
// groupOrder applies to the groups and memberOrder to the unassigned list.
func RosterStatus(
	ctx context.Context,
	store db.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	groupOrder, memberOrder Ordering,
) (*StatusResult, error) {
	schema := cfg.Schema()
	if err := groupOrder.validate(schema, true); err != nil {
		return nil, fmt.Errorf("invalid group ordering: %w", err)
	}
	if err := memberOrder.validate(schema, false); err != nil {
		return nil, fmt.Errorf("invalid member ordering: %w", err)
	}

	state, snap, err := loadState(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	evaluator := cfg.Evaluator()
	groups := state.GroupMap()

	result := &StatusResult{
		Snapshot: snap,
		Problems: state.CheckPartition(),
	}
	for _, id := range orderGroups(state.Groups, groupOrder) {
		g := groups[id]
		result.Groups = append(result.Groups, GroupStatus{
			ID:         g.ID,
			LeaderName: groupName(g),
			Capacity:   g.Capacity,
			SeatsLeft:  g.SeatsLeft(),
			Members:    memberViews(state.Entities, g.Members()),
			Warnings:   constraints.Messages(evaluator.ValidateGroup(g, state.Entities)),
		})
	}
	result.Unassigned = memberViews(state.Entities, orderEntities(state.Unassigned, state.Entities, memberOrder))

	logger.Debug("Built roster status",
		zap.Int("groups", len(result.Groups)),
		zap.Int("unassigned", len(result.Unassigned)),
		zap.Int("problems", len(result.Problems)))

	return result, nil
}

// GroupWarnings lists the warnings of one invalid group
type GroupWarnings struct {
	GroupID    string
	LeaderName string
	Warnings   []string
}

// ValidationResult represents the outcome of validating every group
type ValidationResult struct {
	Snapshot *db.Snapshot

	// Invalid holds the invalid groups in roster order
	Invalid  []GroupWarnings
	Problems []string
}

// Valid returns true when no group has warnings and the partition is intact
func (r *ValidationResult) Valid() bool {
	return len(r.Invalid) == 0 && len(r.Problems) == 0
}

// ValidateRoster runs the constraint evaluator over every group in the
// latest snapshot
func ValidateRoster(ctx context.Context, store db.SnapshotStore, cfg *config.Config, logger *zap.Logger) (*ValidationResult, error) {
	state, snap, err := loadState(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	invalid := cfg.Evaluator().ValidateAll(state.Groups, state.Entities)

	result := &ValidationResult{
		Snapshot: snap,
		Problems: state.CheckPartition(),
	}
	for _, g := range state.Groups {
		violations, ok := invalid[g.ID]
		if !ok {
			continue
		}
		result.Invalid = append(result.Invalid, GroupWarnings{
			GroupID:    g.ID,
			LeaderName: groupName(g),
			Warnings:   constraints.Messages(violations),
		})
	}

	logger.Info("Validated roster",
		zap.Int("groups", len(state.Groups)),
		zap.Int("invalid_groups", len(result.Invalid)),
		zap.Int("problems", len(result.Problems)))

	return result, nil
}

// SnapshotLister lists saved snapshots
type SnapshotLister interface {
	ListSnapshots(ctx context.Context, limit int) ([]db.Snapshot, error)
}

// SnapshotHistory returns up to limit snapshot headers, newest first
func SnapshotHistory(ctx context.Context, store SnapshotLister, logger *zap.Logger, limit int) ([]db.Snapshot, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	snapshots, err := store.ListSnapshots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	logger.Debug("Fetched snapshot history", zap.Int("count", len(snapshots)))
	return snapshots, nil
}

func memberViews(directory model.Directory, ids []string) []MemberView {
	views := make([]MemberView, len(ids))
	for i, id := range ids {
		views[i] = MemberView{ID: id, Name: displayName(directory, id)}
	}
	return views
}
