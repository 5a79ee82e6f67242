package tags

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/artorders/artorders-backend/pkg/db/models"
)

func setupTagsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS tags (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedTag(t *testing.T, db *gorm.DB, title string) models.Tag {
	t.Helper()
	tag := models.Tag{ID: uuid.New(), Title: title}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func TestRepositoryFindByTitles(t *testing.T) {
	db := setupTagsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedTag(t, db, "watercolor")
	seedTag(t, db, "portrait")
	seedTag(t, db, "ink")

	found, err := repo.FindByTitles(ctx, []string{"watercolor", "ink", "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	titles := make(map[string]bool, len(found))
	for _, tag := range found {
		titles[tag.Title] = true
	}
	assert.True(t, titles["watercolor"])
	assert.True(t, titles["ink"])
}

func TestRepositoryFindByTitlesEmptyInput(t *testing.T) {
	db := setupTagsTestDB(t)
	repo := NewRepository(db)

	found, err := repo.FindByTitles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRepositoryListOrdersAndFilters(t *testing.T) {
	db := setupTagsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedTag(t, db, "portrait")
	seedTag(t, db, "pointillism")
	seedTag(t, db, "oil")

	listed, err := repo.List(ctx, "po", 10)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "pointillism", listed[0].Title)
	assert.Equal(t, "portrait", listed[1].Title)

	limited, err := repo.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
