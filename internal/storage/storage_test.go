package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vidvault/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func makeVideo(t *testing.T, db *gorm.DB, youtubeID, title string, categoryID *uint) *models.Video {
	t.Helper()
	v := &models.Video{
		YouTubeID:   youtubeID,
		URL:         "https://www.youtube.com/watch?v=" + youtubeID,
		Title:       title,
		CategoryID:  categoryID,
		WatchStatus: models.StatusUnwatched,
	}
	require.NoError(t, NewVideoRepo(db).Create(context.Background(), v))
	return v
}

func makeCategory(t *testing.T, db *gorm.DB, name string, parentID *uint) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, ParentID: parentID}
	require.NoError(t, NewCategoryRepo(db).Create(context.Background(), c))
	return c
}

func TestPing(t *testing.T) {
	db := testDB(t)
	require.NoError(t, Ping(db))
}
