package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	got, err := URL("postgres://u:p@localhost:5432/contacts?sslmode=disable", "migrations")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u:p@localhost:5432/contacts?sslmode=disable&x-migrations-table=migrations", got)
}

func TestURL_UnsupportedScheme(t *testing.T) {
	_, err := URL("mysql://localhost/db", "")
	require.Error(t, err)
}

func TestEmbeddedFiles(t *testing.T) {
	names, err := fs.Glob(files, "sql/*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "sql/000001_init.up.sql")
	assert.Contains(t, names, "sql/000001_init.down.sql")
}
