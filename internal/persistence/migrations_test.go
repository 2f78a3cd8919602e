package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLFilesOrderAndFiltering(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"002_views.sql", "001_schema.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive", "000_old.sql"), []byte("-- sql"), 0o644))

	names, err := sqlFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_schema.sql", "002_views.sql"}, names)
}

func TestSQLFilesMissingDir(t *testing.T) {
	_, err := sqlFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	err := RunMigrations(context.Background(), nil, zap.NewNop())
	assert.NoError(t, err)
}
