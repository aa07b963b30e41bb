package dbtypes_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/ZameerHP/clipscript/pkg/db/models"
	dbtypes "github.com/ZameerHP/clipscript/pkg/db/types"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "types.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestColumnTypesParseIntoSchemas(t *testing.T) {
	for _, model := range []any{&models.Story{}, &models.Activity{}, &models.User{}} {
		_, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err, "%T", model)
	}
}

func TestStoryListsRoundTripWithoutExplicitTable(t *testing.T) {
	conn := openSQLite(t)
	require.NoError(t, conn.AutoMigrate(&models.Story{}))

	bare := models.Story{
		ID:        "s1",
		UserID:    "u1",
		Title:     "Bare",
		Content:   "no extras",
		CreatedAt: dbtypes.FromMillis(1_700_000_000_000),
	}
	tagged := models.Story{
		ID:          "s2",
		UserID:      "u1",
		Title:       "Tagged",
		Content:     "with extras",
		CreatedAt:   dbtypes.FromMillis(1_700_000_000_500),
		ViralTitles: dbtypes.StringList{"You won't believe this", "Night shift"},
		Hashtags:    dbtypes.StringList{},
	}
	require.NoError(t, conn.Create(&bare).Error)
	require.NoError(t, conn.Create(&tagged).Error)

	var stories []models.Story
	require.NoError(t, conn.Where("user_id = ?", "u1").Order("created_at DESC").Find(&stories).Error)
	require.Len(t, stories, 2)

	assert.Equal(t, "s2", stories[0].ID)
	assert.Equal(t, tagged.ViralTitles, stories[0].ViralTitles)
	assert.NotNil(t, stories[0].Hashtags)
	assert.Empty(t, stories[0].Hashtags)

	assert.Equal(t, "s1", stories[1].ID)
	assert.Nil(t, stories[1].ViralTitles)
	assert.Nil(t, stories[1].Hashtags)

	var none []models.Story
	require.NoError(t, conn.Where("user_id = ?", "nobody").Find(&none).Error)
	assert.Empty(t, none)
}
