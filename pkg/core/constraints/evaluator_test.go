package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

func rideEvaluator() *Evaluator {
	return NewEvaluator("passengers", rideOverlap, collegeMatch)
}

func rideDirectory() model.Directory {
	return model.Directory{
		"driver": {ID: "driver", Name: "Dana", Leader: true, Size: model.IntPtr(2), Attributes: map[string][]string{
			"rides":   {"Friday", "First"},
			"college": {"CampusA"},
		}},
		"alice": person("alice", map[string][]string{"rides": {"First"}, "college": {"CampusA"}}),
		"bob":   person("bob", map[string][]string{"rides": {"Third"}, "college": {"CampusB"}}),
		"carol": person("carol", map[string][]string{"rides": {"Second"}, "backupRides": {"Friday"}, "college": {"Other"}}),
	}
}

func TestCheckCapacity(t *testing.T) {
	leader := model.Entity{ID: "driver"}

	unlimited := model.NewGroup(leader, nil).WithMembers("a", "b", "c")
	assert.Nil(t, CheckCapacity(unlimited, 1))
	assert.Nil(t, CheckCapacity(unlimited, 100))
	assert.Nil(t, CheckCapacity(unlimited, 0))

	room := model.NewGroup(leader, model.IntPtr(2)).WithMember("a")
	assert.Nil(t, CheckCapacity(room, 1))

	full := room.WithMember("b")
	v := CheckCapacity(full, 1)
	require.NotNil(t, v)
	assert.Equal(t, KindCapacityExceeded, v.Kind)
	assert.Nil(t, CheckCapacity(full, 0), "exactly full is valid")
}

func TestCheckCapacity_Batch(t *testing.T) {
	g := model.NewGroup(model.Entity{ID: "driver"}, model.IntPtr(4)).WithMember("a")

	assert.Nil(t, CheckCapacity(g, 3), "1 + 3 <= 4")
	v := CheckCapacity(g, 4)
	require.NotNil(t, v)
	assert.Equal(t, KindCapacityExceeded, v.Kind)
	assert.Contains(t, v.Message, "4")
}

func TestCheckNotAlreadyLeaderElsewhere(t *testing.T) {
	groups := []model.Group{
		model.NewGroup(model.Entity{ID: "d1"}, nil),
		model.NewGroup(model.Entity{ID: "d2"}, nil).WithMember("alice"),
		model.NewLeaderlessGroup("table", nil),
	}

	v := CheckNotAlreadyLeaderElsewhere("d1", groups)
	require.NotNil(t, v)
	assert.Equal(t, KindAlreadyLeader, v.Kind)
	assert.Equal(t, "d1", v.GroupID)

	assert.NotNil(t, CheckNotAlreadyLeaderElsewhere("d2", groups))
	assert.Nil(t, CheckNotAlreadyLeaderElsewhere("alice", groups))
	assert.Nil(t, CheckNotAlreadyLeaderElsewhere("", groups))
}

func TestCheckNotAlreadyLeaderElsewhere_AnyQueriedGroup(t *testing.T) {
	groups := []model.Group{
		model.NewGroup(model.Entity{ID: "d1"}, nil),
		model.NewGroup(model.Entity{ID: "d2"}, nil),
	}
	e := rideEvaluator()

	// d1 is a leader, so it is never admissible whichever group is targeted
	for _, target := range groups {
		violations := e.Admit([]string{"d1"}, target, groups)
		require.Len(t, violations, 1)
		assert.Equal(t, KindAlreadyLeader, violations[0].Kind)
	}
}

func TestCheckNotAlreadyMember(t *testing.T) {
	g := model.NewGroup(model.Entity{ID: "driver"}, nil).WithMember("alice")

	v := CheckNotAlreadyMember("alice", g)
	require.NotNil(t, v)
	assert.Equal(t, KindAlreadyMember, v.Kind)
	assert.Nil(t, CheckNotAlreadyMember("bob", g))
}

func TestEvaluator_CheckMemberOneMessagePerKind(t *testing.T) {
	e := NewEvaluator("", rideOverlap, OverlapRule{LeaderKey: "rides", RequiredKey: "rides"}, collegeMatch)
	dir := rideDirectory()

	violations := e.CheckMember(dir["bob"], dir["driver"])

	require.Len(t, violations, 2)
	assert.Equal(t, KindNoOverlap, violations[0].Kind)
	assert.Equal(t, KindClassificationMismatch, violations[1].Kind)
}

func TestEvaluator_ValidateGroup_Ordering(t *testing.T) {
	dir := rideDirectory()
	g := model.NewGroup(dir["driver"], model.IntPtr(2)).WithMembers("bob", "alice", "carol")

	violations := rideEvaluator().ValidateGroup(g, dir)

	require.Len(t, violations, 3)
	assert.Equal(t, KindCapacityExceeded, violations[0].Kind)
	assert.Equal(t, "TOO MANY PASSENGERS (3/2)", violations[0].Message)
	assert.Equal(t, KindNoOverlap, violations[1].Kind)
	assert.Equal(t, "bob", violations[1].EntityID)
	assert.Equal(t, KindClassificationMismatch, violations[2].Kind)
	assert.Equal(t, "bob", violations[2].EntityID)
	for _, v := range violations {
		assert.Equal(t, "driver", v.GroupID)
	}
}

func TestEvaluator_ValidateGroup_Valid(t *testing.T) {
	dir := rideDirectory()
	g := model.NewGroup(dir["driver"], model.IntPtr(2)).WithMembers("alice", "carol")

	assert.Empty(t, rideEvaluator().ValidateGroup(g, dir))
}

func TestEvaluator_ValidateGroup_Idempotent(t *testing.T) {
	dir := rideDirectory()
	g := model.NewGroup(dir["driver"], model.IntPtr(1)).WithMembers("bob", "alice", "carol", "ghost")
	e := rideEvaluator()

	first := e.ValidateGroup(g, dir)
	second := e.ValidateGroup(g, dir)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"bob", "alice", "carol", "ghost"}, g.Members())
}

func TestEvaluator_ValidateGroup_MissingMember(t *testing.T) {
	dir := rideDirectory()
	g := model.NewGroup(dir["driver"], nil).WithMembers("ghost", "alice")

	violations := rideEvaluator().ValidateGroup(g, dir)

	require.Len(t, violations, 1)
	assert.Equal(t, KindMissingRecord, violations[0].Kind)
	assert.Equal(t, "ghost", violations[0].EntityID)
	assert.Contains(t, violations[0].Message, model.PlaceholderName)
}

func TestEvaluator_ValidateGroup_MissingLeader(t *testing.T) {
	dir := rideDirectory()
	leader := dir["driver"]
	delete(dir, "driver")
	g := model.NewGroup(leader, nil).WithMembers("bob")

	violations := rideEvaluator().ValidateGroup(g, dir)

	require.Len(t, violations, 1)
	assert.Equal(t, KindMissingRecord, violations[0].Kind)
	assert.Equal(t, "driver", violations[0].EntityID)
}

func TestEvaluator_ValidateGroup_UsesDirectoryLeader(t *testing.T) {
	dir := rideDirectory()
	stale := dir["driver"].Clone()
	stale.Attributes["rides"] = []string{"Third"}
	g := model.NewGroup(stale, nil).WithMembers("alice")

	// Directory copy offers First, so alice is fine even though the stored copy is stale
	assert.Empty(t, rideEvaluator().ValidateGroup(g, dir))
}

func TestEvaluator_ValidateGroup_LeaderlessGroupSkipsRules(t *testing.T) {
	dir := rideDirectory()
	g := model.NewLeaderlessGroup("table", model.IntPtr(5)).WithMembers("bob", "alice")

	assert.Empty(t, rideEvaluator().ValidateGroup(g, dir))
}

func TestEvaluator_ValidateAll(t *testing.T) {
	dir := rideDirectory()
	good := model.NewGroup(dir["driver"], model.IntPtr(2)).WithMember("alice")
	bad := model.NewLeaderlessGroup("table", model.IntPtr(0)).WithMember("bob")

	invalid := rideEvaluator().ValidateAll([]model.Group{good, bad}, dir)

	require.Len(t, invalid, 1)
	assert.Equal(t, []string{"TOO MANY PASSENGERS (1/0)"}, Messages(invalid["table"]))
}

func TestEvaluator_Admit(t *testing.T) {
	dir := rideDirectory()
	target := model.NewGroup(dir["driver"], model.IntPtr(2)).WithMember("alice")
	groups := []model.Group{target}
	e := rideEvaluator()

	// Single candidate that fits; rule violations are not part of the gate
	assert.Empty(t, e.Admit([]string{"bob"}, target, groups))

	// Batch that exceeds capacity
	violations := e.Admit([]string{"bob", "carol"}, target, groups)
	require.Len(t, violations, 1)
	assert.Equal(t, KindCapacityExceeded, violations[0].Kind)

	// Duplicates and leaders are rejected and do not count toward the batch
	violations = e.Admit([]string{"alice", "driver", "bob"}, target, groups)
	require.Len(t, violations, 2)
	assert.Equal(t, KindAlreadyMember, violations[0].Kind)
	assert.Equal(t, KindAlreadyLeader, violations[1].Kind)
}
