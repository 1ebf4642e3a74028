package roster

import (
	"fmt"
	"slices"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

// State is the full assignment state of a roster.
//
// Every known entity is in Entities. Each entity is in exactly one of:
// Unassigned, the members of one group, or the leader slot of one group.
type State struct {
	Entities   model.Directory
	Unassigned []string

	// Groups in their default display order
	Groups []model.Group
}

// PositionKind says where an entity currently sits
type PositionKind string

const (
	PositionNone       PositionKind = "none"
	PositionUnassigned PositionKind = "unassigned"
	PositionMember     PositionKind = "member"
	PositionLeader     PositionKind = "leader"
)

// Position is an entity's location within the state
type Position struct {
	Kind    PositionKind
	GroupID string
}

// NewState returns an empty state
func NewState() State {
	return State{
		Entities:   model.Directory{},
		Unassigned: []string{},
		Groups:     []model.Group{},
	}
}

// Clone returns a copy that shares no slices or maps with s
func (s State) Clone() State {
	entities := s.Entities.Clone()
	if entities == nil {
		entities = model.Directory{}
	}
	groups := make([]model.Group, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = g.Copy()
	}
	unassigned := slices.Clone(s.Unassigned)
	if unassigned == nil {
		unassigned = []string{}
	}
	return State{
		Entities:   entities,
		Unassigned: unassigned,
		Groups:     groups,
	}
}

// Group returns the group with the given ID
func (s State) Group(id string) (model.Group, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return model.Group{}, false
}

// GroupIDs returns group IDs in order
func (s State) GroupIDs() []string {
	ids := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		ids[i] = g.ID
	}
	return ids
}

// GroupMap returns the groups keyed by ID
func (s State) GroupMap() map[string]model.Group {
	m := make(map[string]model.Group, len(s.Groups))
	for _, g := range s.Groups {
		m[g.ID] = g
	}
	return m
}

// Locate returns where an entity currently sits
func (s State) Locate(id string) Position {
	if slices.Contains(s.Unassigned, id) {
		return Position{Kind: PositionUnassigned}
	}
	for _, g := range s.Groups {
		if g.LeaderID() == id {
			return Position{Kind: PositionLeader, GroupID: g.ID}
		}
		if g.HasMember(id) {
			return Position{Kind: PositionMember, GroupID: g.ID}
		}
	}
	return Position{Kind: PositionNone}
}

// IsLeader returns true if id leads a group
func (s State) IsLeader(id string) bool {
	return s.leaderGroupIndex(id) != -1
}

// CheckPartition returns a description of every entity that is not in
// exactly one place. An empty result means the partition holds.
func (s State) CheckPartition() []string {
	counts := make(map[string]int)
	for _, id := range s.Unassigned {
		counts[id]++
	}
	for _, g := range s.Groups {
		if id := g.LeaderID(); id != "" {
			counts[id]++
		}
		for _, id := range g.Members() {
			counts[id]++
		}
	}

	var problems []string
	ids := make([]string, 0, len(s.Entities))
	for id := range s.Entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		switch n := counts[id]; {
		case n == 0:
			problems = append(problems, fmt.Sprintf("%s is not placed anywhere", id))
		case n > 1:
			problems = append(problems, fmt.Sprintf("%s is placed %d times", id, n))
		}
	}
	return problems
}

func (s State) groupIndex(id string) int {
	return slices.IndexFunc(s.Groups, func(g model.Group) bool { return g.ID == id })
}

func (s State) leaderGroupIndex(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.Groups, func(g model.Group) bool { return g.LeaderID() == id })
}

// removeEverywhere drops id from unassigned and from every group's members
func (s *State) removeEverywhere(id string) {
	s.Unassigned = slices.DeleteFunc(s.Unassigned, func(u string) bool { return u == id })
	for i, g := range s.Groups {
		if g.HasMember(id) {
			s.Groups[i] = g.WithoutMember(id)
		}
	}
}

func (s *State) appendUnassigned(ids ...string) {
	for _, id := range ids {
		if !slices.Contains(s.Unassigned, id) {
			s.Unassigned = append(s.Unassigned, id)
		}
	}
}
