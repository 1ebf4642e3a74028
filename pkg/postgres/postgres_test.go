package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/carpool-organizer/pkg/db"
)

var _ db.Database = (*DB)(nil)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_notes.sql": {Data: []byte("SELECT 2")},
		"migrations/001_init.sql":  {Data: []byte("SELECT 1")},
		"migrations/003_next.sql":  {Data: []byte("SELECT 3")},
		"migrations/README.md":     {Data: []byte("docs")},
	}

	pending, err := pendingMigrations(fsys, map[string]bool{"001_init.sql": true})
	require.NoError(t, err)

	assert.Equal(t, []string{"002_notes.sql", "003_next.sql"}, pending)
}

func TestPendingMigrations_Embedded(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, map[string]bool{})
	require.NoError(t, err)

	assert.Contains(t, pending, "001_init.sql")
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	require.NotNil(t, nullable("dana"))
	assert.Equal(t, "dana", *nullable("dana"))
}
