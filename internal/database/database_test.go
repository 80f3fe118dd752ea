package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-bot/internal/config"
	"github.com/yukikurage/progress-bot/internal/models"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(&config.Config{StoreDriver: driver, SQLitePath: ":memory:"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	_, err := Dialector(&config.Config{StoreDriver: "file"})
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, LogLevel("silent"))
	assert.Equal(t, logger.Info, LogLevel("debug"))
	assert.Equal(t, logger.Warn, LogLevel(""))
}

func TestConnectAndMigrate(t *testing.T) {
	cfg := &config.Config{StoreDriver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"}
	require.NoError(t, Connect(cfg))
	t.Cleanup(func() { _ = Close() })

	require.NoError(t, Migrate(GetDB()))

	assert.True(t, GetDB().Migrator().HasTable(&models.Entity{}))
	assert.True(t, GetDB().Migrator().HasTable(&models.User{}))
	assert.True(t, GetDB().Migrator().HasTable(&models.AdminID{}))
}
