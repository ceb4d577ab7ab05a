package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	gdb, err := Open("", "file::memory:?cache=shared")
	require.NoError(t, err)

	var n int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("postgres", "host=localhost")
	assert.ErrorContains(t, err, `unsupported database driver "postgres"`)
}
