package roster

import (
	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

// ReconcileOptions controls how groups are built for leaders
type ReconcileOptions struct {
	// Capacity resolves the capacity of a leader's group. current is the
	// group's stored capacity, nil for a new group. When Capacity is nil the
	// leader's own Size is used.
	Capacity func(leader model.Entity, current *int) *int
}

func (o ReconcileOptions) capacity(leader model.Entity, current *int) *int {
	if o.Capacity == nil {
		return leader.Size
	}
	return o.Capacity(leader, current)
}

// Reconcile brings s in line with the external entity and leader lists.
//
// Rules are applied in order:
//  1. unassigned IDs no longer in entities are dropped
//  2. members no longer in entities are dropped from their group
//  3. entities placed nowhere are added to unassigned
//  4. stored copies that differ from the external copy are replaced
//  5. groups whose leader is gone are deleted, members returned to unassigned
//  6. leaders without a group get an empty one; groups whose stored leader
//     differs are rebuilt around the fresh copy, keeping their members
//  7. groups whose stored capacity no longer matches the resolved one
//     take the resolved capacity
//
// An ID present in both lists is treated as a leader. Leaderless groups are
// left alone by rules 5 and 6. Reconcile is idempotent and never loses an
// entity that is still present externally.
func Reconcile(entities, leaders []model.Entity, s State, opts ReconcileOptions) State {
	leaderByID := make(map[string]model.Entity, len(leaders))
	leaderOrder := make([]string, 0, len(leaders))
	for _, l := range leaders {
		if _, seen := leaderByID[l.ID]; !seen {
			leaderOrder = append(leaderOrder, l.ID)
		}
		leaderByID[l.ID] = l
	}

	entityByID := make(map[string]model.Entity, len(entities))
	entityOrder := make([]string, 0, len(entities))
	for _, e := range entities {
		if _, isLeader := leaderByID[e.ID]; isLeader {
			continue
		}
		if _, seen := entityByID[e.ID]; !seen {
			entityOrder = append(entityOrder, e.ID)
		}
		entityByID[e.ID] = e
	}

	next := s.Clone()

	// 1
	placed := make(map[string]bool, len(entityByID))
	unassigned := make([]string, 0, len(next.Unassigned))
	for _, id := range next.Unassigned {
		if _, ok := entityByID[id]; ok && !placed[id] {
			unassigned = append(unassigned, id)
			placed[id] = true
		}
	}
	next.Unassigned = unassigned

	// 2, also dropping any second placement of the same entity
	for i, g := range next.Groups {
		for _, id := range g.Members() {
			if _, ok := entityByID[id]; !ok || placed[id] {
				g = g.WithoutMember(id)
				continue
			}
			placed[id] = true
		}
		next.Groups[i] = g
	}

	// 3
	for _, id := range entityOrder {
		if !placed[id] {
			next.appendUnassigned(id)
			placed[id] = true
		}
	}

	// 4
	directory := make(model.Directory, len(entityByID)+len(leaderByID))
	for id, e := range entityByID {
		if stored, ok := next.Entities[id]; ok && stored.Equal(e) {
			directory[id] = stored
			continue
		}
		directory[id] = e.Clone()
	}
	for id, l := range leaderByID {
		directory[id] = l.Clone()
	}
	next.Entities = directory

	// 5
	for _, g := range s.Groups {
		leaderID := g.LeaderID()
		if leaderID == "" {
			continue
		}
		if _, ok := leaderByID[leaderID]; !ok {
			next.deleteGroup(g.ID, false)
		}
	}

	// 6, 7
	for _, id := range leaderOrder {
		leader := leaderByID[id]
		idx := next.leaderGroupIndex(id)
		if idx == -1 {
			next.Groups = append(next.Groups, model.NewGroup(leader, opts.capacity(leader, nil)))
			continue
		}
		existing := next.Groups[idx]
		capacity := opts.capacity(leader, existing.Capacity)
		switch {
		case !existing.Leader.Equal(leader):
			next.Groups[idx] = model.NewGroup(leader, capacity).WithMembers(existing.Members()...)
		case !model.IntPtrEqual(existing.Capacity, capacity):
			next.Groups[idx] = existing.WithCapacity(capacity)
		}
	}

	return next
}
