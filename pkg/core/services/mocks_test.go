package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/carpool-organizer/internal/config"
	"github.com/jakechorley/carpool-organizer/pkg/clients/sheetsclient"
	"github.com/jakechorley/carpool-organizer/pkg/core/model"
	"github.com/jakechorley/carpool-organizer/pkg/core/roster"
	"github.com/jakechorley/carpool-organizer/pkg/db"
)

// mockStore keeps snapshots in memory, newest last
type mockStore struct {
	snapshots []*db.RosterSnapshot
	getErr    error
	insertErr error
}

func (m *mockStore) GetLatestSnapshot(ctx context.Context) (*db.RosterSnapshot, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	return m.snapshots[len(m.snapshots)-1], nil
}

func (m *mockStore) InsertSnapshot(ctx context.Context, snapshot *db.RosterSnapshot) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

func (m *mockStore) ListSnapshots(ctx context.Context, limit int) ([]db.Snapshot, error) {
	var out []db.Snapshot
	for i := len(m.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.snapshots[i].Snapshot)
	}
	return out, nil
}

func (m *mockStore) latestState(t *testing.T) roster.State {
	t.Helper()
	require.NotEmpty(t, m.snapshots, "no snapshot saved")
	state, err := m.snapshots[len(m.snapshots)-1].State()
	require.NoError(t, err)
	return state
}

func (m *mockStore) seed(t *testing.T, state roster.State) {
	t.Helper()
	snap, err := db.NewRosterSnapshot("seed", db.SourceImport, time.Now(), state)
	require.NoError(t, err)
	m.snapshots = append(m.snapshots, snap)
}

type mockPeople struct {
	people []model.Entity
	err    error
}

func (m *mockPeople) ListPeople(spreadsheetID, tab string, schema model.Schema) ([]model.Entity, error) {
	return m.people, m.err
}

type mockPublisher struct {
	tab    string
	export *sheetsclient.RosterExport
	err    error
}

func (m *mockPublisher) PublishRoster(spreadsheetID, tab string, export *sheetsclient.RosterExport) error {
	m.tab = tab
	m.export = export
	return m.err
}

func testConfig() *config.Config {
	rides := []string{"Friday", "First", "Second", "Third"}
	return &config.Config{
		RosterSheetID: "sheet123",
		PeopleTab:     "People",
		ExportTab:     "Rides",
		DatabaseURL:   "postgres://localhost:5432/carpool",
		MemberLabel:   "passengers",
		Fields: []config.FieldConfig{
			{Key: "email", Label: "Email", Type: "text"},
			{Key: "name", Label: "Name", Type: "text"},
			{Key: "driver", Label: "Driver", Type: "checkbox"},
			{Key: "seats", Label: "Seats", Type: "number"},
			{Key: "rides", Label: "Rides", Type: "select", Multi: true, Options: rides},
			{Key: "backupRides", Label: "Backup Rides", Type: "select", Multi: true, Options: rides},
			{Key: "college", Label: "College", Type: "select", Options: []string{"CampusA", "CampusB", "Other"}},
		},
		IdentityField: "email",
		NameField:     "name",
		LeaderField:   "driver",
		SizeCap:       config.SizeCapConfig{Enabled: true, Source: "leader", Field: "seats"},
		Rules: config.RulesConfig{
			Overlap:        []config.OverlapRuleConfig{{LeaderKey: "rides", RequiredKey: "rides", BackupKey: "backupRides", Label: "rides"}},
			Classification: []config.ClassificationRuleConfig{{Key: "college", Sentinel: "Other", Label: "college"}},
		},
		SmartAssignFilters: []config.SmartAssignFilter{{Key: "rides"}, {Key: "college"}},
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func driver(id, name string, seats int, ride, college string) model.Entity {
	return model.Entity{
		ID:     id,
		Name:   name,
		Leader: true,
		Size:   model.IntPtr(seats),
		Attributes: map[string][]string{
			"rides":   {ride},
			"college": {college},
		},
	}
}

func passenger(id, name, ride, college string) model.Entity {
	return model.Entity{
		ID:   id,
		Name: name,
		Attributes: map[string][]string{
			"rides":   {ride},
			"college": {college},
		},
	}
}

var (
	dana  = driver("dana", "Dana", 2, "Friday", "CampusA")
	evan  = driver("evan", "Evan", 1, "First", "CampusB")
	alice = passenger("alice", "Alice", "Friday", "CampusA")
	bob   = passenger("bob", "Bob", "First", "CampusB")
	carol = passenger("carol", "Carol", "Friday", "CampusB")
)

// carpoolState has Dana (2 seats) and Evan (1 seat) driving with empty cars
// and Alice, Bob and Carol waiting for a ride
func carpoolState() roster.State {
	return roster.Reconcile(
		[]model.Entity{alice, bob, carol},
		[]model.Entity{dana, evan},
		roster.NewState(),
		roster.ReconcileOptions{},
	)
}
