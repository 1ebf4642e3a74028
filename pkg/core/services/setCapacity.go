package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/internal/config"
	"github.com/jakechorley/carpool-organizer/pkg/core/constraints"
	"github.com/jakechorley/carpool-organizer/pkg/core/model"
	"github.com/jakechorley/carpool-organizer/pkg/core/roster"
	"github.com/jakechorley/carpool-organizer/pkg/db"
)

// ErrCapacityNotSettable is returned when the size cap does not take group values
var ErrCapacityNotSettable = errors.New("group capacity cannot be set")

// CapacityResult represents the result of setting a group's capacity
type CapacityResult struct {
	GroupID  string
	Previous *int
	Capacity *int

	// Warnings holds the group's warnings at the new capacity
	Warnings []string

	// Snapshot is nil when the capacity did not change
	Snapshot *db.Snapshot
}

// SetGroupCapacity stores an explicit capacity for a group. It needs a size
// cap sourced from groups. A nil capacity resets the group to the
// configured default. Shrinking below the member count is allowed and
// reported as a warning.
func SetGroupCapacity(
	ctx context.Context,
	store db.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	groupID string,
	capacity *int,
) (*CapacityResult, error) {
	schema := cfg.Schema()
	switch {
	case !schema.SizeCap.Enabled:
		return nil, fmt.Errorf("%w: sizeCap is not enabled", ErrCapacityNotSettable)
	case schema.SizeCap.Source != model.SizeFromGroup:
		return nil, fmt.Errorf("%w: capacity comes from the leader's %s field", ErrCapacityNotSettable, schema.SizeCap.Field)
	case capacity != nil && *capacity < 0:
		return nil, fmt.Errorf("capacity must not be negative, got %d", *capacity)
	}

	state, _, err := loadState(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	group, ok := state.Group(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}

	resolved := schema.CapacityFor(group.Leader, capacity)
	result := &CapacityResult{
		GroupID:  groupID,
		Previous: group.Capacity,
		Capacity: resolved,
	}

	next := roster.Apply(state, roster.SetCapacity{GroupID: groupID, Capacity: resolved})
	updated, _ := next.Group(groupID)
	result.Warnings = constraints.Messages(cfg.Evaluator().ValidateGroup(updated, next.Entities))

	if model.IntPtrEqual(group.Capacity, resolved) {
		logger.Info("Capacity unchanged", zap.String("group_id", groupID))
		return result, nil
	}

	result.Snapshot, err = saveState(ctx, store, logger, db.SourceCapacity, next)
	if err != nil {
		return nil, err
	}

	logger.Info("Set group capacity",
		zap.String("group_id", groupID),
		zap.Int("seats_left", updated.SeatsLeft()),
		zap.Int("warnings", len(result.Warnings)))

	return result, nil
}
