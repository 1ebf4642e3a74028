package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/carpool-organizer/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorBold   = "\033[1m"
)

// StatusCmd creates the status command
func StatusCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show groups, seats left and unassigned people",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			members, groups, err := orderingsFromFlags(cmd)
			if err != nil {
				return err
			}

			result, err := services.RosterStatus(app.Ctx, app.Database, app.Cfg, app.Logger, groups, members)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s🚗 Roster%s (snapshot %s, %s)\n\n", colorBold, colorReset,
				result.Snapshot.ID, result.Snapshot.CreatedAt.Local().Format("Mon Jan 02 15:04"))

			for _, g := range result.Groups {
				fmt.Printf("%s%s%s  %s\n", colorBold, g.LeaderName, colorReset, seatsText(g))
				for _, m := range g.Members {
					fmt.Printf("    • %s (%s)\n", m.Name, m.ID)
				}
				for _, w := range g.Warnings {
					fmt.Printf("    %s⚠️  %s%s\n", colorYellow, w, colorReset)
				}
			}

			fmt.Printf("\nUnassigned (%d):\n", len(result.Unassigned))
			for _, m := range result.Unassigned {
				fmt.Printf("    • %s (%s)\n", m.Name, m.ID)
			}

			printProblems(result.Problems)
			fmt.Println()

			return nil
		},
	}

	addOrderingFlags(cmd)
	return cmd
}

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every group against capacity and compatibility rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ValidateRoster(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			if result.Valid() {
				fmt.Printf("\n%s✅ All groups are valid%s\n\n", colorGreen, colorReset)
				return nil
			}

			fmt.Printf("\n⚠️  %d invalid groups:\n\n", len(result.Invalid))
			for _, g := range result.Invalid {
				fmt.Printf("%s%s%s (%s)\n", colorBold, g.LeaderName, colorReset, g.GroupID)
				for _, w := range g.Warnings {
					fmt.Printf("  • %s\n", w)
				}
			}
			printProblems(result.Problems)
			fmt.Println()

			return nil
		},
	}
}

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved roster snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			snapshots, err := services.SnapshotHistory(app.Ctx, app.Database, app.Logger, limit)
			if err != nil {
				return err
			}

			if len(snapshots) == 0 {
				fmt.Println("No snapshots saved yet.")
				return nil
			}

			fmt.Printf("\n%-36s  %-16s  %s\n", "ID", "Saved", "Source")
			fmt.Println(strings.Repeat("-", 68))
			for _, s := range snapshots {
				fmt.Printf("%-36s  %-16s  %s\n", s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Source)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Number of snapshots to show")
	return cmd
}

func seatsText(g services.GroupStatus) string {
	if g.Unlimited() {
		return fmt.Sprintf("%d members, unlimited", len(g.Members))
	}
	color := colorGreen
	switch {
	case g.SeatsLeft < 0:
		color = colorRed
	case g.SeatsLeft == 0:
		color = colorYellow
	}
	return fmt.Sprintf("%s%d/%d, %d seats left%s", color, len(g.Members), *g.Capacity, g.SeatsLeft, colorReset)
}

func printProblems(problems []string) {
	if len(problems) == 0 {
		return
	}
	fmt.Printf("\n%s❌ Roster problems:%s\n", colorRed, colorReset)
	for _, p := range problems {
		fmt.Printf("  • %s\n", p)
	}
}
