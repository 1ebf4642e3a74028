package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/carpool-organizer/pkg/core/services"
)

// SetCapacityCmd creates the setCapacity command
func SetCapacityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setCapacity <group_id> <capacity|default>",
		Short: "Set a group's capacity when groups carry their own size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			capacity, err := parseCapacity(args[1])
			if err != nil {
				return err
			}

			result, err := services.SetGroupCapacity(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], capacity)
			if err != nil {
				return err
			}

			if result.Snapshot == nil {
				fmt.Printf("\n%s already has capacity %s\n\n", result.GroupID, capacityText(result.Capacity))
				return nil
			}

			fmt.Printf("\n✓ %s capacity %s → %s\n", result.GroupID, capacityText(result.Previous), capacityText(result.Capacity))
			for _, w := range result.Warnings {
				fmt.Printf("  %s⚠️  %s%s\n", colorYellow, w, colorReset)
			}
			fmt.Println()

			return nil
		},
	}
}

// parseCapacity reads a capacity argument. "default" returns nil.
func parseCapacity(raw string) (*int, error) {
	if raw == "default" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("capacity must be a non-negative whole number or \"default\", got %q", raw)
	}
	return &n, nil
}

func capacityText(capacity *int) string {
	if capacity == nil {
		return "unlimited"
	}
	return strconv.Itoa(*capacity)
}
