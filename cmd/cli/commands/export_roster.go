package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/carpool-organizer/pkg/core/services"
)

// ExportRosterCmd creates the exportRoster command
func ExportRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "exportRoster",
		Short: "Publish the current groups to the export tab of the roster sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ExportRoster(app.Ctx, app.Database, app.SheetsClient, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			warnings := 0
			for _, g := range result.Export.Groups {
				warnings += len(g.Warnings)
			}

			fmt.Printf("\n✓ Roster published to tab '%s'\n\n", result.Tab)
			fmt.Printf("Groups:     %d\n", len(result.Export.Groups))
			fmt.Printf("Unassigned: %d\n", len(result.Export.Unassigned))
			fmt.Printf("Warnings:   %d\n\n", warnings)

			return nil
		},
	}
}
