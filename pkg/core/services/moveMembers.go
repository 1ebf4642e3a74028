package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/internal/config"
	"github.com/jakechorley/carpool-organizer/pkg/core/constraints"
	"github.com/jakechorley/carpool-organizer/pkg/core/roster"
	"github.com/jakechorley/carpool-organizer/pkg/db"
)

// MoveResult represents the result of moving people into a group
type MoveResult struct {
	GroupID string

	// Moved lists the IDs that ended up in the group, in request order
	Moved []string

	// Rejected holds the drop gate violations. They are advisory: the move
	// still happens for everyone the roster accepts.
	Rejected []string

	// Warnings holds the group's warnings after the move
	Warnings []string

	// Snapshot is nil when nothing moved
	Snapshot *db.Snapshot
}

// MoveMembers moves people into a group, from unassigned or another group.
// Gate violations and rule warnings are reported, not enforced.
func MoveMembers(
	ctx context.Context,
	store db.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	groupID string,
	entityIDs []string,
) (*MoveResult, error) {
	if len(entityIDs) == 0 {
		return nil, fmt.Errorf("no people given to move")
	}

	state, _, err := loadState(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	target, ok := state.Group(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}
	for _, id := range entityIDs {
		if _, ok := state.Entities[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
		}
	}

	evaluator := cfg.Evaluator()
	gate := evaluator.Admit(entityIDs, target, state.Groups)
	for _, v := range gate {
		logger.Debug("Drop gate violation", zap.String("kind", string(v.Kind)), zap.String("message", v.Message))
	}

	next := roster.Apply(state, roster.AddMembers{GroupID: groupID, EntityIDs: entityIDs})
	moved, _ := next.Group(groupID)

	result := &MoveResult{
		GroupID:  groupID,
		Rejected: constraints.Messages(gate),
		Warnings: constraints.Messages(evaluator.ValidateGroup(moved, next.Entities)),
	}
	for _, id := range entityIDs {
		if moved.HasMember(id) && !target.HasMember(id) {
			result.Moved = append(result.Moved, id)
		}
	}

	if len(result.Moved) == 0 {
		logger.Info("Nothing moved", zap.String("group_id", groupID))
		return result, nil
	}

	result.Snapshot, err = saveState(ctx, store, logger, db.SourceAssign, next)
	if err != nil {
		return nil, err
	}

	logger.Info("Moved people",
		zap.String("group_id", groupID),
		zap.Strings("moved", result.Moved),
		zap.Int("warnings", len(result.Warnings)))

	return result, nil
}

// UnassignResult represents the result of unassigning a person
type UnassignResult struct {
	EntityID string

	// FromGroup is the group the person left, empty if they were already unassigned
	FromGroup string

	Snapshot *db.Snapshot
}

// UnassignMember moves a group member back to unassigned. Leaders cannot be
// unassigned: they leave the roster only by being removed from the sheet.
func UnassignMember(ctx context.Context, store db.SnapshotStore, logger *zap.Logger, entityID string) (*UnassignResult, error) {
	state, _, err := loadState(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	result := &UnassignResult{EntityID: entityID}

	pos := state.Locate(entityID)
	switch pos.Kind {
	case roster.PositionNone:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entityID)
	case roster.PositionLeader:
		return nil, fmt.Errorf("cannot unassign %s: leads group %s", entityID, pos.GroupID)
	case roster.PositionUnassigned:
		logger.Info("Already unassigned", zap.String("entity_id", entityID))
		return result, nil
	}

	result.FromGroup = pos.GroupID
	next := roster.Apply(state, roster.RemoveMember{EntityID: entityID})

	result.Snapshot, err = saveState(ctx, store, logger, db.SourceUnassign, next)
	if err != nil {
		return nil, err
	}

	logger.Info("Unassigned person",
		zap.String("entity_id", entityID),
		zap.String("from_group", result.FromGroup))

	return result, nil
}
