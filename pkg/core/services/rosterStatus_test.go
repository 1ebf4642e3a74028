package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
	"github.com/jakechorley/carpool-organizer/pkg/core/roster"
)

func TestRosterStatus(t *testing.T) {
	store := &mockStore{}
	store.seed(t, roster.Apply(carpoolState(), roster.AddMembers{GroupID: "dana", EntityIDs: []string{"alice", "carol"}}))

	result, err := RosterStatus(t.Context(), store, testConfig(), testLogger(), Ordering{}, Ordering{})
	require.NoError(t, err)

	require.Len(t, result.Groups, 2)
	dana := result.Groups[0]
	assert.Equal(t, "Dana", dana.LeaderName)
	assert.Equal(t, 0, dana.SeatsLeft)
	assert.Equal(t, []MemberView{{ID: "alice", Name: "Alice"}, {ID: "carol", Name: "Carol"}}, dana.Members)
	assert.Equal(t, []string{"Carol is from a different college than Dana (CampusB vs CampusA)"}, dana.Warnings)

	assert.Empty(t, result.Groups[1].Warnings)
	assert.Equal(t, []MemberView{{ID: "bob", Name: "Bob"}}, result.Unassigned)
	assert.Empty(t, result.Problems)
}

func TestRosterStatus_UnlimitedGroup(t *testing.T) {
	store := &mockStore{}
	store.seed(t, roster.Apply(carpoolState(), roster.CreateGroup{Group: model.NewLeaderlessGroup("walkers", nil)}))

	result, err := RosterStatus(t.Context(), store, testConfig(), testLogger(), Ordering{SortBy: SortBySeats, Descending: true}, Ordering{})
	require.NoError(t, err)

	require.Len(t, result.Groups, 3)
	assert.Equal(t, "walkers", result.Groups[0].ID)
	assert.True(t, result.Groups[0].Unlimited())
	assert.Equal(t, "walkers", result.Groups[0].LeaderName)
}

func TestRosterStatus_NoSnapshot(t *testing.T) {
	_, err := RosterStatus(t.Context(), &mockStore{}, testConfig(), testLogger(), Ordering{}, Ordering{})
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRosterStatus_InvalidOrdering(t *testing.T) {
	store := &mockStore{}
	store.seed(t, carpoolState())

	_, err := RosterStatus(t.Context(), store, testConfig(), testLogger(), Ordering{}, Ordering{SortBy: SortBySeats})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid member ordering")
}

func TestValidateRoster(t *testing.T) {
	store := &mockStore{}
	store.seed(t, roster.Apply(carpoolState(), roster.AddMembers{GroupID: "evan", EntityIDs: []string{"alice", "bob"}}))

	result, err := ValidateRoster(t.Context(), store, testConfig(), testLogger())
	require.NoError(t, err)

	assert.False(t, result.Valid())
	require.Len(t, result.Invalid, 1)
	assert.Equal(t, "evan", result.Invalid[0].GroupID)
	assert.Equal(t, []string{
		"TOO MANY PASSENGERS (2/1)",
		"Alice has no overlapping rides with Evan",
		"Alice is from a different college than Evan (CampusA vs CampusB)",
	}, result.Invalid[0].Warnings)
}

func TestValidateRoster_Valid(t *testing.T) {
	store := &mockStore{}
	store.seed(t, roster.Apply(carpoolState(), roster.AddMembers{GroupID: "dana", EntityIDs: []string{"alice"}}))

	result, err := ValidateRoster(t.Context(), store, testConfig(), testLogger())
	require.NoError(t, err)

	assert.True(t, result.Valid())
}

func TestSnapshotHistory(t *testing.T) {
	store := &mockStore{}
	store.seed(t, carpoolState())
	store.seed(t, carpoolState())

	snapshots, err := SnapshotHistory(t.Context(), store, testLogger(), 1)
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)

	_, err = SnapshotHistory(t.Context(), store, testLogger(), 0)
	assert.Error(t, err)
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, "Dana", groupName(model.NewGroup(dana, nil)))
	assert.Equal(t, "table", groupName(model.NewLeaderlessGroup("table", nil)))
	assert.Equal(t, "!ERROR! (zed)", groupName(model.NewGroup(model.Placeholder("zed"), nil)))
}
