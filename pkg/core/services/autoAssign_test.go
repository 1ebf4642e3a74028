package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/carpool-organizer/pkg/db"
)

func placedPairs(result *AutoAssignResult) [][2]string {
	pairs := make([][2]string, len(result.Placements))
	for i, p := range result.Placements {
		pairs[i] = [2]string{p.EntityID, p.GroupID}
	}
	return pairs
}

func TestAutoAssign_Quick(t *testing.T) {
	store := &mockStore{}
	store.seed(t, carpoolState())

	result, err := AutoAssign(t.Context(), store, testConfig(), testLogger(), AutoAssignOptions{Strategy: StrategyQuick})
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"alice", "dana"}, {"bob", "dana"}, {"carol", "evan"}}, placedPairs(result))
	assert.Equal(t, "Dana", result.Placements[0].GroupName)
	assert.Empty(t, result.Unassigned)

	// Quick assign ignores the rules, so the warnings show up afterwards
	assert.Contains(t, result.Warnings["dana"], "Bob has no overlapping rides with Dana")
	assert.Contains(t, result.Warnings["evan"], "Carol has no overlapping rides with Evan")

	require.NotNil(t, result.Snapshot)
	assert.Equal(t, db.SourceQuickAssign, result.Snapshot.Source)
	state := store.latestState(t)
	assert.Empty(t, state.Unassigned)
	assert.Empty(t, state.CheckPartition())
}

func TestAutoAssign_Smart(t *testing.T) {
	store := &mockStore{}
	store.seed(t, carpoolState())

	result, err := AutoAssign(t.Context(), store, testConfig(), testLogger(), AutoAssignOptions{Strategy: StrategySmart})
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"alice", "dana"}, {"bob", "evan"}}, placedPairs(result))
	assert.Equal(t, []MemberView{{ID: "carol", Name: "Carol"}}, result.Unassigned)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, db.SourceSmartAssign, result.Snapshot.Source)
}

func TestAutoAssign_DryRunDoesNotSave(t *testing.T) {
	store := &mockStore{}
	store.seed(t, carpoolState())

	result, err := AutoAssign(t.Context(), store, testConfig(), testLogger(), AutoAssignOptions{Strategy: StrategyQuick, DryRun: true})
	require.NoError(t, err)

	assert.Len(t, result.Placements, 3)
	assert.Nil(t, result.Snapshot)
	assert.Len(t, store.snapshots, 1)
}

func TestAutoAssign_Ordering(t *testing.T) {
	store := &mockStore{}
	store.seed(t, carpoolState())

	opts := AutoAssignOptions{
		Strategy: StrategyQuick,
		Members:  Ordering{SortBy: SortByName, Descending: true, Filters: map[string]string{"rides": "friday"}},
		Groups:   Ordering{SortBy: SortBySeats},
	}
	result, err := AutoAssign(t.Context(), store, testConfig(), testLogger(), opts)
	require.NoError(t, err)

	// Carol then Alice (Friday riders by name, descending), Evan's car first
	assert.Equal(t, [][2]string{{"carol", "evan"}, {"alice", "dana"}}, placedPairs(result))
	assert.Equal(t, []MemberView{{ID: "bob", Name: "Bob"}}, result.Unassigned)
}

func TestAutoAssign_NothingToPlace(t *testing.T) {
	store := &mockStore{}
	store.seed(t, carpoolState())

	opts := AutoAssignOptions{Strategy: StrategyQuick, Members: Ordering{Filters: map[string]string{"rides": "Third"}}}
	result, err := AutoAssign(t.Context(), store, testConfig(), testLogger(), opts)
	require.NoError(t, err)

	assert.Empty(t, result.Placements)
	assert.Nil(t, result.Snapshot)
	assert.Len(t, store.snapshots, 1)
}

func TestAutoAssign_Errors(t *testing.T) {
	store := &mockStore{}
	store.seed(t, carpoolState())

	_, err := AutoAssign(t.Context(), store, testConfig(), testLogger(), AutoAssignOptions{Strategy: "random"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown assign strategy")

	_, err = AutoAssign(t.Context(), store, testConfig(), testLogger(), AutoAssignOptions{Strategy: StrategyQuick, Groups: Ordering{SortBy: "shoeSize"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort key: shoeSize")

	_, err = AutoAssign(t.Context(), &mockStore{}, testConfig(), testLogger(), AutoAssignOptions{Strategy: StrategyQuick})
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
