package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/carpool-organizer/pkg/core/services"
)

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importRoster",
		Short: "Import people from the roster sheet, keeping existing assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ImportRoster(app.Ctx, app.Database, app.SheetsClient, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster imported!\n\n")
			fmt.Printf("Snapshot ID: %s\n", result.Snapshot.ID)
			fmt.Printf("Leaders:     %d\n", result.Leaders)
			fmt.Printf("Assignable:  %d\n", result.Assignable)
			fmt.Printf("Unassigned:  %d\n\n", len(result.State.Unassigned))

			if len(result.Added) > 0 {
				fmt.Printf("Added (%d):\n", len(result.Added))
				for _, id := range result.Added {
					fmt.Printf("  + %s (%s)\n", result.State.Entities[id].Name, id)
				}
				fmt.Println()
			}
			if len(result.Removed) > 0 {
				fmt.Printf("Removed (%d):\n", len(result.Removed))
				for _, id := range result.Removed {
					fmt.Printf("  - %s\n", id)
				}
				fmt.Println()
			}

			return nil
		},
	}
}
