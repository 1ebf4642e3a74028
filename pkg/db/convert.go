package db

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
	"github.com/jakechorley/carpool-organizer/pkg/core/roster"
)

type entityPayload struct {
	Name       string              `json:"name"`
	Leader     bool                `json:"leader,omitempty"`
	Size       *int                `json:"size,omitempty"`
	Notes      string              `json:"notes,omitempty"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

// NewRosterSnapshot flattens a roster state into snapshot rows
func NewRosterSnapshot(id, source string, createdAt time.Time, state roster.State) (*RosterSnapshot, error) {
	snap := &RosterSnapshot{
		Snapshot: Snapshot{ID: id, CreatedAt: createdAt, Source: source},
	}

	ids := make([]string, 0, len(state.Entities))
	for entityID := range state.Entities {
		ids = append(ids, entityID)
	}
	slices.Sort(ids)

	for i, entityID := range ids {
		e := state.Entities[entityID]
		payload, err := json.Marshal(entityPayload{
			Name:       e.Name,
			Leader:     e.Leader,
			Size:       e.Size,
			Notes:      e.Notes,
			Attributes: e.Attributes,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode entity %s: %w", entityID, err)
		}
		snap.Entities = append(snap.Entities, SnapshotEntity{
			SnapshotID: id,
			EntityID:   entityID,
			Position:   i,
			Payload:    payload,
		})
	}

	for i, g := range state.Groups {
		snap.Groups = append(snap.Groups, SnapshotGroup{
			SnapshotID: id,
			GroupID:    g.ID,
			LeaderID:   g.LeaderID(),
			Capacity:   g.Capacity,
			Position:   i,
		})
		for j, memberID := range g.Members() {
			snap.Assignments = append(snap.Assignments, SnapshotAssignment{
				SnapshotID: id,
				EntityID:   memberID,
				GroupID:    g.ID,
				Position:   j,
			})
		}
	}

	for i, entityID := range state.Unassigned {
		snap.Assignments = append(snap.Assignments, SnapshotAssignment{
			SnapshotID: id,
			EntityID:   entityID,
			Position:   i,
		})
	}

	return snap, nil
}

// State rebuilds the roster state stored in the snapshot. A group whose
// leader row is missing keeps a placeholder leader.
func (s *RosterSnapshot) State() (roster.State, error) {
	state := roster.NewState()

	for _, row := range s.Entities {
		var p entityPayload
		if err := json.Unmarshal(row.Payload, &p); err != nil {
			return roster.State{}, fmt.Errorf("failed to decode entity %s: %w", row.EntityID, err)
		}
		state.Entities[row.EntityID] = model.Entity{
			ID:         row.EntityID,
			Name:       p.Name,
			Leader:     p.Leader,
			Size:       p.Size,
			Notes:      p.Notes,
			Attributes: p.Attributes,
		}
	}

	assignments := slices.Clone(s.Assignments)
	slices.SortStableFunc(assignments, func(a, b SnapshotAssignment) int {
		return a.Position - b.Position
	})
	members := make(map[string][]string)
	for _, a := range assignments {
		if a.GroupID == "" {
			state.Unassigned = append(state.Unassigned, a.EntityID)
			continue
		}
		members[a.GroupID] = append(members[a.GroupID], a.EntityID)
	}

	groups := slices.Clone(s.Groups)
	slices.SortStableFunc(groups, func(a, b SnapshotGroup) int {
		return a.Position - b.Position
	})
	for _, row := range groups {
		var g model.Group
		if row.LeaderID == "" {
			g = model.NewLeaderlessGroup(row.GroupID, row.Capacity)
		} else {
			leader, _ := model.Directory(state.Entities).Lookup(row.LeaderID)
			g = model.NewGroup(leader, row.Capacity)
			g.ID = row.GroupID
		}
		state.Groups = append(state.Groups, g.WithMembers(members[row.GroupID]...))
	}

	return state, nil
}
