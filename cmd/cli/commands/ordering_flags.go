package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/carpool-organizer/pkg/core/services"
)

// addOrderingFlags registers the sort and filter flags for people and groups
func addOrderingFlags(cmd *cobra.Command) {
	cmd.Flags().String("sort", "", "Sort people by name or a field key")
	cmd.Flags().Bool("desc", false, "Sort people in descending order")
	cmd.Flags().StringSlice("filter", nil, "Only include people matching key=value (repeatable)")
	cmd.Flags().String("group-sort", "", "Sort groups by name, seats or a field key of the leader")
	cmd.Flags().Bool("group-desc", false, "Sort groups in descending order")
	cmd.Flags().StringSlice("group-filter", nil, "Only include groups whose leader matches key=value (repeatable)")
}

// orderingsFromFlags reads the member and group orderings registered by addOrderingFlags
func orderingsFromFlags(cmd *cobra.Command) (members, groups services.Ordering, err error) {
	members, err = orderingFromFlags(cmd, "sort", "desc", "filter")
	if err != nil {
		return services.Ordering{}, services.Ordering{}, err
	}
	groups, err = orderingFromFlags(cmd, "group-sort", "group-desc", "group-filter")
	if err != nil {
		return services.Ordering{}, services.Ordering{}, err
	}
	return members, groups, nil
}

func orderingFromFlags(cmd *cobra.Command, sortFlag, descFlag, filterFlag string) (services.Ordering, error) {
	sortBy, _ := cmd.Flags().GetString(sortFlag)
	desc, _ := cmd.Flags().GetBool(descFlag)
	rawFilters, _ := cmd.Flags().GetStringSlice(filterFlag)

	filters, err := parseFilters(rawFilters)
	if err != nil {
		return services.Ordering{}, fmt.Errorf("invalid --%s: %w", filterFlag, err)
	}

	return services.Ordering{SortBy: sortBy, Descending: desc, Filters: filters}, nil
}

// parseFilters turns key=value pairs into a filter map
func parseFilters(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	filters := make(map[string]string, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("%q must be formatted as key=value", pair)
		}
		filters[key] = value
	}
	return filters, nil
}
