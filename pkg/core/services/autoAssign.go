package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/internal/config"
	"github.com/jakechorley/carpool-organizer/pkg/core/assign"
	"github.com/jakechorley/carpool-organizer/pkg/core/constraints"
	"github.com/jakechorley/carpool-organizer/pkg/core/roster"
	"github.com/jakechorley/carpool-organizer/pkg/db"
)

// Strategy selects the auto-assignment engine
type Strategy string

const (
	// StrategyQuick fills groups considering capacity only
	StrategyQuick Strategy = "quick"
	// StrategySmart also keeps the configured filter attributes compatible
	StrategySmart Strategy = "smart"
)

// AutoAssignOptions configures an auto-assignment run
type AutoAssignOptions struct {
	Strategy Strategy

	// Members orders and filters the unassigned people offered to the engine
	Members Ordering

	// Groups orders and filters the groups placements may go to
	Groups Ordering

	// DryRun computes placements without saving them
	DryRun bool
}

// PlacementView is one placement made by an auto-assignment run
type PlacementView struct {
	EntityID   string
	EntityName string
	GroupID    string
	GroupName  string
}

// AutoAssignResult represents the result of an auto-assignment run
type AutoAssignResult struct {
	Strategy   Strategy
	Placements []PlacementView

	// Unassigned lists everyone still unassigned after the run
	Unassigned []MemberView

	// Warnings holds post-run warnings keyed by group ID for invalid groups
	Warnings map[string][]string

	// Snapshot is nil on a dry run
	Snapshot *db.Snapshot
}

// AutoAssign runs quick or smart assign over the latest roster and commits
// all placements as one snapshot
func AutoAssign(
	ctx context.Context,
	store db.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	opts AutoAssignOptions,
) (*AutoAssignResult, error) {
	schema := cfg.Schema()
	if err := opts.Members.validate(schema, false); err != nil {
		return nil, fmt.Errorf("invalid member ordering: %w", err)
	}
	if err := opts.Groups.validate(schema, true); err != nil {
		return nil, fmt.Errorf("invalid group ordering: %w", err)
	}

	state, _, err := loadState(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	unassigned := orderEntities(state.Unassigned, state.Entities, opts.Members)
	groupOrder := orderGroups(state.Groups, opts.Groups)

	logger.Debug("Running auto assign",
		zap.String("strategy", string(opts.Strategy)),
		zap.Int("candidates", len(unassigned)),
		zap.Int("groups", len(groupOrder)),
		zap.Bool("dry_run", opts.DryRun))

	var run assign.Result
	switch opts.Strategy {
	case StrategyQuick:
		run = assign.QuickAssign(unassigned, groupOrder, state.GroupMap())
	case StrategySmart:
		run = assign.SmartAssign(unassigned, groupOrder, state.GroupMap(), state.Entities, cfg.Filters())
	default:
		return nil, fmt.Errorf("unknown assign strategy: %q", opts.Strategy)
	}

	next := roster.ApplyPlacements(state, run.Placements)

	result := &AutoAssignResult{
		Strategy:   opts.Strategy,
		Unassigned: memberViews(next.Entities, next.Unassigned),
		Warnings:   make(map[string][]string),
	}
	for _, p := range run.Placements {
		g, _ := next.Group(p.GroupID)
		result.Placements = append(result.Placements, PlacementView{
			EntityID:   p.EntityID,
			EntityName: displayName(next.Entities, p.EntityID),
			GroupID:    p.GroupID,
			GroupName:  groupName(g),
		})
	}
	for groupID, violations := range cfg.Evaluator().ValidateAll(next.Groups, next.Entities) {
		result.Warnings[groupID] = constraints.Messages(violations)
	}

	if opts.DryRun || len(run.Placements) == 0 {
		logger.Info("Auto assign finished without saving",
			zap.Int("placements", len(result.Placements)),
			zap.Int("unassigned", len(result.Unassigned)),
			zap.Bool("dry_run", opts.DryRun))
		return result, nil
	}

	source := db.SourceQuickAssign
	if opts.Strategy == StrategySmart {
		source = db.SourceSmartAssign
	}
	result.Snapshot, err = saveState(ctx, store, logger, source, next)
	if err != nil {
		return nil, err
	}

	logger.Info("Auto assign saved",
		zap.String("snapshot_id", result.Snapshot.ID),
		zap.Int("placements", len(result.Placements)),
		zap.Int("unassigned", len(result.Unassigned)))

	return result, nil
}
