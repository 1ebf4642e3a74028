package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/pkg/core/services"
)

// QuickAssignCmd creates the quickAssign command
func QuickAssignCmd(app *AppContext) *cobra.Command {
	return autoAssignCmd(app, services.StrategyQuick, "quickAssign",
		"Fill groups in order, considering capacity only")
}

// SmartAssignCmd creates the smartAssign command
func SmartAssignCmd(app *AppContext) *cobra.Command {
	return autoAssignCmd(app, services.StrategySmart, "smartAssign",
		"Fill groups in order, keeping the configured attributes compatible")
}

func autoAssignCmd(app *AppContext, strategy services.Strategy, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			members, groups, err := orderingsFromFlags(cmd)
			if err != nil {
				return err
			}

			app.Logger.Debug(use+" command",
				zap.Bool("dry_run", dryRun),
				zap.String("sort", members.SortBy),
				zap.String("group_sort", groups.SortBy))

			result, err := services.AutoAssign(app.Ctx, app.Database, app.Cfg, app.Logger, services.AutoAssignOptions{
				Strategy: strategy,
				Members:  members,
				Groups:   groups,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n🎯 %s Results\n\n", use)
			switch {
			case dryRun:
				fmt.Printf("Mode:   🧪 DRY RUN (not saved)\n")
			case result.Snapshot != nil:
				fmt.Printf("Status: ✅ saved as snapshot %s\n", result.Snapshot.ID)
			default:
				fmt.Printf("Status: nothing to place\n")
			}
			fmt.Println()

			fmt.Printf("Placed (%d):\n", len(result.Placements))
			for _, p := range result.Placements {
				fmt.Printf("  %s → %s\n", p.EntityName, p.GroupName)
			}

			fmt.Printf("\nStill unassigned (%d):\n", len(result.Unassigned))
			for _, m := range result.Unassigned {
				fmt.Printf("  • %s\n", m.Name)
			}

			if len(result.Warnings) > 0 {
				fmt.Printf("\n%s⚠️  Warnings:%s\n", colorYellow, colorReset)
				groupIDs := make([]string, 0, len(result.Warnings))
				for id := range result.Warnings {
					groupIDs = append(groupIDs, id)
				}
				slices.Sort(groupIDs)
				for _, id := range groupIDs {
					for _, w := range result.Warnings[id] {
						fmt.Printf("  • %s: %s\n", id, w)
					}
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show placements without saving")
	addOrderingFlags(cmd)
	return cmd
}

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <group_id> <person_id>...",
		Short: "Move people into a group (warns but does not block)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.MoveMembers(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], args[1:])
			if err != nil {
				return err
			}

			for _, r := range result.Rejected {
				fmt.Printf("%s⚠️  %s%s\n", colorYellow, r, colorReset)
			}

			if len(result.Moved) == 0 {
				fmt.Printf("\nNobody was moved into %s\n\n", result.GroupID)
				return nil
			}

			fmt.Printf("\n✓ Moved %d into %s\n", len(result.Moved), result.GroupID)
			for _, w := range result.Warnings {
				fmt.Printf("  %s⚠️  %s%s\n", colorYellow, w, colorReset)
			}
			fmt.Println()

			return nil
		},
	}
}

// UnassignCmd creates the unassign command
func UnassignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <person_id>",
		Short: "Move a person out of their group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.UnassignMember(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			if result.FromGroup == "" {
				fmt.Printf("%s is already unassigned\n", result.EntityID)
				return nil
			}

			fmt.Printf("✓ %s removed from %s\n", result.EntityID, result.FromGroup)
			return nil
		},
	}
}
