package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/internal/config"
	"github.com/jakechorley/carpool-organizer/pkg/clients/sheetsclient"
	"github.com/jakechorley/carpool-organizer/pkg/core/constraints"
	"github.com/jakechorley/carpool-organizer/pkg/core/model"
	"github.com/jakechorley/carpool-organizer/pkg/core/roster"
	"github.com/jakechorley/carpool-organizer/pkg/db"
)

const unlimitedLabel = "unlimited"

// ExportResult represents the result of publishing the roster
type ExportResult struct {
	Snapshot *db.Snapshot
	Tab      string
	Export   *sheetsclient.RosterExport
}

// ExportRoster publishes the latest roster to the configured export tab
func ExportRoster(
	ctx context.Context,
	store db.SnapshotStore,
	publisher RosterPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) (*ExportResult, error) {
	state, snap, err := loadState(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	export := buildRosterExport(state, cfg.Evaluator(), time.Now())

	logger.Debug("Publishing roster",
		zap.String("tab", cfg.ExportTab),
		zap.Int("groups", len(export.Groups)),
		zap.Int("unassigned", len(export.Unassigned)))

	if err := publisher.PublishRoster(cfg.RosterSheetID, cfg.ExportTab, export); err != nil {
		return nil, fmt.Errorf("failed to publish roster: %w", err)
	}

	logger.Info("Roster published", zap.String("tab", cfg.ExportTab), zap.String("snapshot_id", snap.ID))

	return &ExportResult{Snapshot: snap, Tab: cfg.ExportTab, Export: export}, nil
}

func buildRosterExport(state roster.State, evaluator *constraints.Evaluator, now time.Time) *sheetsclient.RosterExport {
	export := &sheetsclient.RosterExport{
		GeneratedAt: now,
		Unassigned:  memberNames(state.Entities, state.Unassigned),
	}

	for _, g := range state.Groups {
		export.Groups = append(export.Groups, sheetsclient.ExportedGroup{
			Name:      groupName(g),
			Capacity:  capacityLabel(g),
			SeatsLeft: seatsLeftLabel(g),
			Members:   memberNames(state.Entities, g.Members()),
			Warnings:  constraints.Messages(evaluator.ValidateGroup(g, state.Entities)),
		})
	}

	return export
}

func capacityLabel(g model.Group) string {
	if g.IsUnlimited() {
		return unlimitedLabel
	}
	return strconv.Itoa(*g.Capacity)
}

func seatsLeftLabel(g model.Group) string {
	if g.IsUnlimited() {
		return unlimitedLabel
	}
	return strconv.Itoa(g.SeatsLeft())
}
