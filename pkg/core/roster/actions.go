package roster

import (
	"fmt"
	"slices"

	"github.com/jakechorley/carpool-organizer/pkg/core/assign"
	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

// Action is one change to a roster. The set of actions is closed: only the
// types in this file implement it.
type Action interface {
	action()
}

// CreateEntity adds a new entity to the roster as unassigned. Creating an
// entity whose ID already exists replaces the stored copy instead.
type CreateEntity struct {
	Entity model.Entity
}

// ReplaceEntity swaps the stored copy of an existing entity without
// touching its assignment. A group whose capacity follows its leader's Size
// keeps following it.
type ReplaceEntity struct {
	Entity model.Entity
}

// DeleteEntity removes an entity from the roster. Deleting a leader also
// deletes its group and returns the members to unassigned.
type DeleteEntity struct {
	ID string
}

// CreateGroup adds a group. The group's leader is taken out of unassigned
// and out of any other group's membership. Creating a group whose ID
// already exists keeps its members; a leader it replaces goes back to
// unassigned.
type CreateGroup struct {
	Group model.Group
}

// DeleteGroup removes a group, returning its members and leader to unassigned
type DeleteGroup struct {
	ID string
}

// AddMembers moves entities into a group from wherever they currently are.
// Capacity is not enforced.
type AddMembers struct {
	GroupID   string
	EntityIDs []string
}

// RemoveMember takes an entity out of its group and back to unassigned
type RemoveMember struct {
	EntityID string
}

// SetCapacity sets a group's capacity. nil makes the group unlimited.
type SetCapacity struct {
	GroupID  string
	Capacity *int
}

func (CreateEntity) action()  {}
func (ReplaceEntity) action() {}
func (DeleteEntity) action()  {}
func (CreateGroup) action()   {}
func (DeleteGroup) action()   {}
func (AddMembers) action()    {}
func (RemoveMember) action()  {}
func (SetCapacity) action()   {}

// Apply returns the state that results from applying a to s. s is not
// modified. Apply panics if given an action type it does not handle.
func Apply(s State, a Action) State {
	next := s.Clone()

	switch a := a.(type) {
	case CreateEntity:
		next.createEntity(a.Entity)
	case ReplaceEntity:
		next.replaceEntity(a.Entity)
	case DeleteEntity:
		next.deleteEntity(a.ID)
	case CreateGroup:
		next.createGroup(a.Group)
	case DeleteGroup:
		next.deleteGroup(a.ID, true)
	case AddMembers:
		next.addMembers(a.GroupID, a.EntityIDs)
	case RemoveMember:
		next.removeMember(a.EntityID)
	case SetCapacity:
		next.setCapacity(a.GroupID, a.Capacity)
	default:
		panic(fmt.Sprintf("roster: unknown action %T", a))
	}

	return next
}

// ApplyAll applies actions in order
func ApplyAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Apply(s, a)
	}
	return s
}

// ApplyPlacements commits the placements of an auto-assignment pass as one
// batch
func ApplyPlacements(s State, placements []assign.Placement) State {
	next := s.Clone()
	for _, p := range placements {
		next.addMembers(p.GroupID, []string{p.EntityID})
	}
	return next
}

func (s *State) createEntity(e model.Entity) {
	if _, exists := s.Entities[e.ID]; exists {
		s.replaceEntity(e)
		return
	}
	s.Entities[e.ID] = e.Clone()
	s.appendUnassigned(e.ID)
}

func (s *State) replaceEntity(e model.Entity) {
	if _, exists := s.Entities[e.ID]; !exists {
		return
	}
	s.Entities[e.ID] = e.Clone()
	if idx := s.leaderGroupIndex(e.ID); idx != -1 {
		g := s.Groups[idx]
		if model.IntPtrEqual(g.Capacity, g.Leader.Size) {
			g = g.WithCapacity(e.Size)
		}
		s.Groups[idx] = g.WithLeader(e)
	}
}

func (s *State) deleteEntity(id string) {
	if idx := s.leaderGroupIndex(id); idx != -1 {
		s.deleteGroup(s.Groups[idx].ID, false)
	}
	s.removeEverywhere(id)
	delete(s.Entities, id)
}

func (s *State) createGroup(g model.Group) {
	if leaderID := g.LeaderID(); leaderID != "" {
		if _, exists := s.Entities[leaderID]; !exists {
			s.Entities[leaderID] = g.Leader.Clone()
		}
		s.removeEverywhere(leaderID)
	}

	// Members that are unknown or lead a group are dropped
	members := make([]string, 0, g.MemberCount())
	for _, id := range g.Members() {
		if _, known := s.Entities[id]; !known || id == g.LeaderID() || s.IsLeader(id) {
			continue
		}
		members = append(members, id)
	}
	for _, id := range members {
		s.removeEverywhere(id)
	}

	group := g.WithoutMembers()

	if idx := s.groupIndex(g.ID); idx != -1 {
		existing := s.Groups[idx]
		if old := existing.LeaderID(); old != "" && old != g.LeaderID() {
			if _, known := s.Entities[old]; known {
				s.appendUnassigned(old)
			}
		}
		group = group.WithMembers(existing.Members()...)
		s.Groups[idx] = group.WithMembers(members...)
		return
	}
	s.Groups = append(s.Groups, group.WithMembers(members...))
}

// deleteGroup removes the group and returns its members to unassigned. The
// leader is returned too when keepLeader is set.
func (s *State) deleteGroup(id string, keepLeader bool) {
	idx := s.groupIndex(id)
	if idx == -1 {
		return
	}
	g := s.Groups[idx]
	s.Groups = slices.Delete(s.Groups, idx, idx+1)

	if keepLeader && g.LeaderID() != "" {
		if _, exists := s.Entities[g.LeaderID()]; exists {
			s.appendUnassigned(g.LeaderID())
		}
	}
	s.appendUnassigned(g.Members()...)
}

func (s *State) addMembers(groupID string, ids []string) {
	idx := s.groupIndex(groupID)
	if idx == -1 {
		return
	}

	for _, id := range ids {
		if _, known := s.Entities[id]; !known || s.IsLeader(id) {
			continue
		}
		s.removeEverywhere(id)
		s.Groups[idx] = s.Groups[idx].WithMember(id)
	}
}

func (s *State) setCapacity(groupID string, capacity *int) {
	if idx := s.groupIndex(groupID); idx != -1 {
		s.Groups[idx] = s.Groups[idx].WithCapacity(capacity)
	}
}

func (s *State) removeMember(id string) {
	pos := s.Locate(id)
	if pos.Kind != PositionMember {
		return
	}
	idx := s.groupIndex(pos.GroupID)
	s.Groups[idx] = s.Groups[idx].WithoutMember(id)
	s.appendUnassigned(id)
}
