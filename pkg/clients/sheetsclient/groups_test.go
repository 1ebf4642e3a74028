package sheetsclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExportRows(t *testing.T) {
	export := &RosterExport{
		GeneratedAt: time.Date(2026, 3, 6, 18, 30, 0, 0, time.UTC),
		Groups: []ExportedGroup{
			{Name: "Dana", Capacity: "2", SeatsLeft: "-1", Members: []string{"Alice", "Bob", "Carol"}, Warnings: []string{"TOO MANY PASSENGERS (3/2)", "Bob has no overlapping rides with Dana"}},
			{Name: "Eve", Capacity: "unlimited", SeatsLeft: "unlimited"},
		},
		Unassigned: []string{"Frank"},
	}

	rows := buildExportRows(export)
	require.Len(t, rows, 8)

	assert.Equal(t, []interface{}{"Generated", "Fri Mar 06 2026 18:30"}, rows[0])
	assert.Empty(t, rows[1])
	assert.Equal(t, []interface{}{"Group", "Capacity", "Seats left", "Member 1", "Member 2", "Member 3", "Warnings"}, rows[2])
	assert.Equal(t, []interface{}{"Dana", "2", "-1", "Alice", "Bob", "Carol", "TOO MANY PASSENGERS (3/2); Bob has no overlapping rides with Dana"}, rows[3])
	assert.Equal(t, []interface{}{"Eve", "unlimited", "unlimited", "", "", "", ""}, rows[4])
	assert.Empty(t, rows[5])
	assert.Equal(t, []interface{}{"Unassigned"}, rows[6])
	assert.Equal(t, []interface{}{"Frank"}, rows[7])
}

func TestBuildExportRows_NoGroups(t *testing.T) {
	rows := buildExportRows(&RosterExport{})

	assert.Equal(t, []interface{}{"Group", "Capacity", "Seats left", "Warnings"}, rows[2])
	assert.Len(t, rows, 5)
}

func TestFindColumnIndex(t *testing.T) {
	header := []interface{}{"Name", " Email ", 42, "Driver"}

	assert.Equal(t, 1, findColumnIndex(header, "email"))
	assert.Equal(t, 3, findColumnIndex(header, "Driver"))
	assert.Equal(t, -1, findColumnIndex(header, "Seats"))
}
