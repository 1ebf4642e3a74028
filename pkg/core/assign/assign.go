package assign

import (
	"maps"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

// Placement records one entity placed into one group
type Placement struct {
	EntityID string
	GroupID  string
}

// Result is the outcome of an auto-assignment pass. It is a single batch:
// callers commit Unassigned and Groups together.
type Result struct {
	// Unassigned is the input unassigned list minus everyone placed, in order
	Unassigned []string

	// Groups contains every input group, with placements applied
	Groups map[string]model.Group

	// Placements lists placements in the order they were made
	Placements []Placement
}

// QuickAssign places each unassigned entity, in order, into the first group
// in groupOrder with room. Only capacity is considered. Repeated IDs are
// handled once.
func QuickAssign(unassigned []string, groupOrder []string, groups map[string]model.Group) Result {
	p := newPass(groups)

	for _, entityID := range unassigned {
		if !p.visit(entityID) {
			continue
		}
		placed := false
		for _, groupID := range groupOrder {
			group, ok := p.groups[groupID]
			if !ok || !group.HasRoom(1) {
				continue
			}
			p.place(entityID, groupID, group)
			placed = true
			break
		}
		if !placed {
			p.remaining = append(p.remaining, entityID)
		}
	}

	return p.result()
}

// SmartAssign is QuickAssign restricted to groups whose aggregate profile
// intersects the entity's values on every filter key. Each placement
// narrows the receiving group's profile so later placements must also be
// compatible with the new member.
func SmartAssign(
	unassigned []string,
	groupOrder []string,
	groups map[string]model.Group,
	directory model.Directory,
	filters []Filter,
) Result {
	p := newPass(groups)

	profiles := make(map[string]Profile, len(groupOrder))
	for _, groupID := range groupOrder {
		if group, ok := p.groups[groupID]; ok {
			profiles[groupID] = BuildProfile(group, directory, filters)
		}
	}

	for _, entityID := range unassigned {
		if !p.visit(entityID) {
			continue
		}
		entity, ok := directory[entityID]
		if !ok {
			p.remaining = append(p.remaining, entityID)
			continue
		}

		placed := false
		for _, groupID := range groupOrder {
			group, ok := p.groups[groupID]
			if !ok || !group.HasRoom(1) {
				continue
			}
			if !profiles[groupID].Admits(entity, filters) {
				continue
			}

			p.place(entityID, groupID, group)
			profiles[groupID] = profiles[groupID].Narrow(entity, filters)
			placed = true
			break
		}
		if !placed {
			p.remaining = append(p.remaining, entityID)
		}
	}

	return p.result()
}

// pass holds the working state of one assignment run
type pass struct {
	groups     map[string]model.Group
	remaining  []string
	placements []Placement
	seen       map[string]bool
}

func newPass(groups map[string]model.Group) *pass {
	cloned := maps.Clone(groups)
	if cloned == nil {
		cloned = make(map[string]model.Group)
	}
	return &pass{
		groups:     cloned,
		remaining:  []string{},
		placements: []Placement{},
		seen:       make(map[string]bool),
	}
}

// visit returns false if entityID was already handled in this pass
func (p *pass) visit(entityID string) bool {
	if p.seen[entityID] {
		return false
	}
	p.seen[entityID] = true
	return true
}

func (p *pass) place(entityID, groupID string, group model.Group) {
	p.groups[groupID] = group.WithMember(entityID)
	p.placements = append(p.placements, Placement{EntityID: entityID, GroupID: groupID})
}

func (p *pass) result() Result {
	return Result{
		Unassigned: p.remaining,
		Groups:     p.groups,
		Placements: p.placements,
	}
}
