package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_AppliedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	store, err := NewStorage(path)
	require.NoError(t, err)

	applied, err := store.getAppliedMigrations()
	require.NoError(t, err)
	assert.Len(t, applied, len(allMigrations))

	// Reopening must not re-run anything.
	require.NoError(t, store.Close())
	store, err = NewStorage(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	applied, err = store.getAppliedMigrations()
	require.NoError(t, err)
	assert.Len(t, applied, len(allMigrations))
}

func TestMigrations_VersionsAreSequential(t *testing.T) {
	for i, m := range allMigrations {
		assert.Equal(t, i+1, m.Version, "migration %q out of order", m.Name)
	}
}
