package model

import (
	"math"
	"slices"
)

// Unlimited is returned by SeatsLeft for groups without a capacity
const Unlimited = math.MaxInt

// Group is a capacity-bounded set of members led by an optional leader.
//
// Group is a value type: every method that changes membership returns a new
// Group and never touches the receiver's member slice, so copies can be
// handed out freely.
type Group struct {
	// ID equals the leader's ID for led groups
	ID string

	// Leader is the stored copy of the leading entity (nil for leaderless groups)
	Leader *Entity

	// Capacity is the maximum number of members. nil means unlimited.
	Capacity *int

	members []string
}

// NewGroup creates an empty group led by leader
func NewGroup(leader Entity, capacity *int) Group {
	l := leader.Clone()
	return Group{
		ID:       leader.ID,
		Leader:   &l,
		Capacity: copyCapacity(capacity),
	}
}

// NewLeaderlessGroup creates an empty group with no leader
func NewLeaderlessGroup(id string, capacity *int) Group {
	return Group{ID: id, Capacity: copyCapacity(capacity)}
}

// LeaderID returns the leader's ID, or "" for leaderless groups
func (g Group) LeaderID() string {
	if g.Leader == nil {
		return ""
	}
	return g.Leader.ID
}

// Members returns the member IDs in insertion order
func (g Group) Members() []string {
	return slices.Clone(g.members)
}

// MemberCount returns the number of members
func (g Group) MemberCount() int {
	return len(g.members)
}

// HasMember returns true if id is a member of the group
func (g Group) HasMember(id string) bool {
	return slices.Contains(g.members, id)
}

// IsUnlimited returns true if the group has no capacity
func (g Group) IsUnlimited() bool {
	return g.Capacity == nil
}

// SeatsLeft returns capacity minus member count. It is negative when the
// group is over capacity and Unlimited when there is no capacity.
func (g Group) SeatsLeft() int {
	if g.Capacity == nil {
		return Unlimited
	}
	return *g.Capacity - len(g.members)
}

// HasRoom returns true if n more members fit within capacity
func (g Group) HasRoom(n int) bool {
	if g.Capacity == nil {
		return true
	}
	return len(g.members)+n <= *g.Capacity
}

// WithMember returns a copy of the group with id appended. Capacity is not
// enforced here. Adding an existing member returns the group unchanged.
func (g Group) WithMember(id string) Group {
	return g.WithMembers(id)
}

// WithMembers returns a copy of the group with ids appended in order,
// skipping any that are already members
func (g Group) WithMembers(ids ...string) Group {
	next := make([]string, len(g.members), len(g.members)+len(ids))
	copy(next, g.members)
	for _, id := range ids {
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	g.members = next
	return g
}

// WithoutMember returns a copy of the group with id removed (no-op if absent)
func (g Group) WithoutMember(id string) Group {
	idx := slices.Index(g.members, id)
	if idx == -1 {
		return g
	}
	g.members = slices.Delete(slices.Clone(g.members), idx, idx+1)
	return g
}

// WithoutMembers returns a copy of the group with no members
func (g Group) WithoutMembers() Group {
	g.members = nil
	return g
}

// WithLeader returns a copy of the group with the stored leader replaced.
// Membership is preserved.
func (g Group) WithLeader(leader Entity) Group {
	l := leader.Clone()
	g.Leader = &l
	return g
}

// WithCapacity returns a copy of the group with a new capacity
func (g Group) WithCapacity(capacity *int) Group {
	g.Capacity = copyCapacity(capacity)
	return g
}

// Copy returns a distinct group value with the same leader and members
func (g Group) Copy() Group {
	g.members = slices.Clone(g.members)
	return g
}

func copyCapacity(capacity *int) *int {
	if capacity == nil {
		return nil
	}
	return IntPtr(*capacity)
}
