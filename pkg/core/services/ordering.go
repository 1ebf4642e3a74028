package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

// Sort keys understood by every ordering. Any schema field key may also be used.
const (
	SortByName  = "name"
	SortBySeats = "seats"
)

// Ordering controls the order and selection of the arrays handed to the
// auto-assignment engine and shown in listings
type Ordering struct {
	// SortBy is "name", "seats" (groups only) or a field key. Empty keeps the
	// stored order.
	SortBy     string
	Descending bool

	// Filters keeps entities whose field value (keyed by field) matches.
	// Groups are filtered on their leader.
	Filters map[string]string
}

func (o Ordering) validate(schema model.Schema, forGroups bool) error {
	switch o.SortBy {
	case "", SortByName:
	case SortBySeats:
		if !forGroups {
			return fmt.Errorf("sort by %s only applies to groups", SortBySeats)
		}
	default:
		if _, ok := schema.Field(o.SortBy); !ok {
			return fmt.Errorf("unknown sort key: %s", o.SortBy)
		}
	}

	for key := range o.Filters {
		if key == SortByName {
			continue
		}
		if _, ok := schema.Field(key); !ok {
			return fmt.Errorf("unknown filter key: %s", key)
		}
	}
	return nil
}

// orderEntities filters and stably sorts entity IDs. IDs missing from the
// directory sort as placeholders and never match a filter.
func orderEntities(ids []string, directory model.Directory, o Ordering) []string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		e, ok := directory.Lookup(id)
		if len(o.Filters) > 0 && (!ok || !matchesFilters(e, o.Filters)) {
			continue
		}
		kept = append(kept, id)
	}

	if o.SortBy == "" {
		return kept
	}

	slices.SortStableFunc(kept, func(a, b string) int {
		ea, _ := directory.Lookup(a)
		eb, _ := directory.Lookup(b)
		return o.direction(compareEntities(ea, eb, o.SortBy))
	})
	return kept
}

// orderGroups filters and stably sorts groups, returning their IDs.
// Leaderless groups never match a filter.
func orderGroups(groups []model.Group, o Ordering) []string {
	kept := make([]model.Group, 0, len(groups))
	for _, g := range groups {
		if len(o.Filters) > 0 && (g.Leader == nil || !matchesFilters(*g.Leader, o.Filters)) {
			continue
		}
		kept = append(kept, g)
	}

	if o.SortBy != "" {
		slices.SortStableFunc(kept, func(a, b model.Group) int {
			if o.SortBy == SortBySeats {
				return o.direction(cmp.Compare(a.SeatsLeft(), b.SeatsLeft()))
			}
			if o.SortBy == SortByName {
				return o.direction(compareFold(groupName(a), groupName(b)))
			}
			return o.direction(compareFold(leaderValue(a, o.SortBy), leaderValue(b, o.SortBy)))
		})
	}

	ids := make([]string, len(kept))
	for i, g := range kept {
		ids[i] = g.ID
	}
	return ids
}

func (o Ordering) direction(c int) int {
	if o.Descending {
		return -c
	}
	return c
}

func compareEntities(a, b model.Entity, key string) int {
	if key == SortByName {
		return compareFold(a.Name, b.Name)
	}
	return compareFold(a.Value(key), b.Value(key))
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func leaderValue(g model.Group, key string) string {
	if g.Leader == nil {
		return ""
	}
	return g.Leader.Value(key)
}

func matchesFilters(e model.Entity, filters map[string]string) bool {
	for key, want := range filters {
		if key == SortByName {
			if !strings.Contains(strings.ToLower(e.Name), strings.ToLower(want)) {
				return false
			}
			continue
		}
		if !slices.ContainsFunc(e.Values(key), func(v string) bool {
			return strings.EqualFold(v, want)
		}) {
			return false
		}
	}
	return true
}
