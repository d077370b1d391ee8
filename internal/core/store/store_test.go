package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/xzzpig/postboard/internal/core/db"
)

func TestSQLiteStore(t *testing.T) {
	s := &StoreSuite{}
	s.Open = func() *db.DB {
		d, err := db.InitDB(db.InitDBOptions{
			Dialect:       db.SQLite,
			DSN:           db.FileSDN(filepath.Join(s.T().TempDir(), "store.db")),
			MigrationMode: db.MigrationModeVersioned,
			Environment:   "test",
		})
		require.NoError(s.T(), err)
		s.T().Cleanup(func() { db.CloseDB(d) })
		return d
	}
	suite.Run(t, s)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
