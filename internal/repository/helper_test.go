package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	"filmrover/internal/config"
	"filmrover/internal/database"
	"filmrover/internal/db"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) (*sql.DB, *db.Queries) {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "filmrover.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB, db.New(sqlDB)
}
