package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/armada-sim/simcore/internal/model"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SQLite(t *testing.T) {
	db, err := GetSqliteDBStandalone(filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	for _, m := range model.DatabaseModels {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}

	var info model.SimcoreInfo
	require.NoError(t, db.First(&info).Error)
	assert.Equal(t, SchemaVersion, info.SchemaVersion)

	// second migration must not add another info row
	require.NoError(t, Migrate(db))
	var count int64
	db.Model(&model.SimcoreInfo{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDumpMemoryDBToDisk(t *testing.T) {
	db, err := GetSqliteDBStandalone(filepath.Join(t.TempDir(), "src.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Create(&model.Run{Name: "dumped"}).Error)

	out := filepath.Join(t.TempDir(), "dump.db")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))
	require.NoError(t, DumpMemoryDBToDisk(db, out))

	dumped, err := GetSqliteDBStandalone(out)
	require.NoError(t, err)
	var run model.Run
	require.NoError(t, dumped.First(&run).Error)
	assert.Equal(t, "dumped", run.Name)
}

func TestDumpMemoryDBToDisk_NoPath(t *testing.T) {
	assert.Error(t, DumpMemoryDBToDisk(nil, ""))
}

func TestGetBackupDBPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.db", "b.db", "notes.txt", ".db"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.db"), 0o755))

	paths, err := GetBackupDBPaths(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.db"), filepath.Join(dir, "b.db")}, paths)
}

func TestGetBackupDBPaths_MissingDir(t *testing.T) {
	_, err := GetBackupDBPaths(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("db.host", "db")
	viper.Set("db.port", "6543")
	viper.Set("db.username", "sim")
	viper.Set("db.password", "secret")
	viper.Set("db.database", "runs")

	assert.Equal(t, "host=db port=6543 user=sim password=secret dbname=runs sslmode=disable", PostgresDSN())
}

func TestManager_ConnectFallsBackToSQLite(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("db.host", "127.0.0.1")
	viper.Set("db.port", "1")
	viper.Set("db.database", "none")

	m := NewManager(zerolog.Nop())
	require.NoError(t, m.Connect())
	assert.True(t, m.IsValid)
	assert.True(t, m.ShouldSaveLocal)
	assert.Equal(t, "sqlite", m.DB.Dialector.Name())

	require.NoError(t, m.Setup())
	assert.True(t, m.DB.Migrator().HasTable(&model.Run{}))

	path := filepath.Join(t.TempDir(), "fallback.db")
	require.NoError(t, DumpMemoryDBToDisk(m.DB, path))
	assert.FileExists(t, path)
}
