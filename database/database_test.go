package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srhbot/config"
	"srhbot/models"
)

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "srhbot.db")

	db, err := Open(path)
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.UserProfile{}))
	assert.True(t, db.Migrator().HasTable(&models.ChatMessage{}))
	assert.FileExists(t, path)
}

func TestInit_UsesConfig(t *testing.T) {
	old := config.AppConfig
	defer func() { config.AppConfig = old }()
	config.AppConfig.Database.DSN = "file:database_init_test?mode=memory&cache=shared"

	db, err := Init()
	require.NoError(t, err)
	assert.Same(t, db, GetDB())
}
