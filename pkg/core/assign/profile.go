package assign

import (
	"slices"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

// Filter names an attribute smart assign must keep compatible within a group
type Filter struct {
	Key string

	// Domain is the set of allowed values. Empty means any value.
	Domain []string
}

// ValueSet is either the universal set or an explicit list of values
type ValueSet struct {
	Universal bool
	Values    []string
}

// Universe returns the unconstrained set
func Universe() ValueSet {
	return ValueSet{Universal: true}
}

// SetOf returns an explicit set of values
func SetOf(values ...string) ValueSet {
	return ValueSet{Values: dedupe(values)}
}

// IsEmpty returns true for an explicit set with no values
func (s ValueSet) IsEmpty() bool {
	return !s.Universal && len(s.Values) == 0
}

// Narrow intersects the set with values. Empty values leave the set
// unchanged: someone who declares nothing does not constrain the group.
func (s ValueSet) Narrow(values []string) ValueSet {
	if len(values) == 0 {
		return s
	}
	if s.Universal {
		return SetOf(values...)
	}

	kept := make([]string, 0, len(s.Values))
	for _, v := range s.Values {
		if slices.Contains(values, v) {
			kept = append(kept, v)
		}
	}
	return ValueSet{Values: kept}
}

// Intersects returns true if values shares at least one element with the set
func (s ValueSet) Intersects(values []string) bool {
	if len(values) == 0 {
		return false
	}
	if s.Universal {
		return true
	}
	for _, v := range values {
		if slices.Contains(s.Values, v) {
			return true
		}
	}
	return false
}

// Profile is a group's aggregate attribute profile: for each filter key the
// values everyone already in the group has in common
type Profile map[string]ValueSet

// BuildProfile computes the profile of group from its leader and current
// members, starting each key from the filter's domain
func BuildProfile(group model.Group, directory model.Directory, filters []Filter) Profile {
	profile := make(Profile, len(filters))
	for _, f := range filters {
		if len(f.Domain) > 0 {
			profile[f.Key] = SetOf(f.Domain...)
		} else {
			profile[f.Key] = Universe()
		}
	}

	if group.Leader != nil {
		leader, ok := directory[group.LeaderID()]
		if !ok {
			leader = *group.Leader
		}
		profile = profile.Narrow(leader, filters)
	}

	for _, id := range group.Members() {
		member, ok := directory[id]
		if !ok {
			continue
		}
		profile = profile.Narrow(member, filters)
	}

	return profile
}

// Admits returns true if the entity's values intersect the profile on
// every filter key
func (p Profile) Admits(entity model.Entity, filters []Filter) bool {
	for _, f := range filters {
		set, ok := p[f.Key]
		if !ok || set.IsEmpty() {
			return false
		}
		if !set.Intersects(entity.Values(f.Key)) {
			return false
		}
	}
	return true
}

// Narrow returns a new profile intersected with the entity's values
func (p Profile) Narrow(entity model.Entity, filters []Filter) Profile {
	next := make(Profile, len(p))
	for k, v := range p {
		next[k] = v
	}
	for _, f := range filters {
		next[f.Key] = next[f.Key].Narrow(entity.Values(f.Key))
	}
	return next
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
