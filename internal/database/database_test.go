package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect_UnsupportedDriver(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite3", ConnectionString: "file::memory:"})

	assert.Nil(t, db)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestIsSupportedDriver(t *testing.T) {
	assert.True(t, IsSupportedDriver(DriverPostgres))
	assert.True(t, IsSupportedDriver(DriverMySQL))
	assert.False(t, IsSupportedDriver("oracle"))
}
