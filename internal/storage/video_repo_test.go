package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidvault/internal/models"
)

func TestVideoRepo_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepo(db)

	created := makeVideo(t, db, "dQw4w9WgXcQ", "Test Video", nil)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Video", got.Title)
	assert.Equal(t, models.StatusUnwatched, got.WatchStatus)

	byYT, err := repo.GetByYouTubeID(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byYT.ID)
}

func TestVideoRepo_GetByID_NotFound(t *testing.T) {
	repo := NewVideoRepo(testDB(t))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByYouTubeID(context.Background(), "nosuchvideo")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVideoRepo_List_Filters(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepo(db)
	cat := makeCategory(t, db, "Programming", nil)

	v1 := makeVideo(t, db, "aaaaaaaaaaa", "Go Tutorial", &cat.ID)
	v1.Author = "Gopher"
	require.NoError(t, repo.Update(context.Background(), v1))

	v2 := makeVideo(t, db, "bbbbbbbbbbb", "Cooking Show", nil)
	v2.WatchStatus = models.StatusWatched
	require.NoError(t, repo.Update(context.Background(), v2))

	makeVideo(t, db, "ccccccccccc", "Another Go Talk", &cat.ID)

	t.Run("by category", func(t *testing.T) {
		videos, total, err := repo.List(context.Background(), ListVideosOptions{CategoryID: &cat.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, videos, 2)
	})

	t.Run("by watch status", func(t *testing.T) {
		videos, total, err := repo.List(context.Background(), ListVideosOptions{WatchStatus: models.StatusWatched})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, videos, 1)
		assert.Equal(t, "Cooking Show", videos[0].Title)
	})

	t.Run("by search", func(t *testing.T) {
		_, total, err := repo.List(context.Background(), ListVideosOptions{Search: "Go"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("search matches author", func(t *testing.T) {
		_, total, err := repo.List(context.Background(), ListVideosOptions{Search: "Gopher"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("paged total is unpaged", func(t *testing.T) {
		videos, total, err := repo.List(context.Background(), ListVideosOptions{Limit: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, videos, 1)
	})
}

func TestVideoRepo_ListRecentWithTranscript(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepo(db)

	withTranscript := makeVideo(t, db, "aaaaaaaaaaa", "Has", nil)
	text := "some transcript"
	withTranscript.Transcript = &text
	require.NoError(t, repo.Update(context.Background(), withTranscript))

	empty := makeVideo(t, db, "bbbbbbbbbbb", "Empty", nil)
	blank := ""
	empty.Transcript = &blank
	require.NoError(t, repo.Update(context.Background(), empty))

	makeVideo(t, db, "ccccccccccc", "None", nil)

	videos, err := repo.ListRecentWithTranscript(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, withTranscript.ID, videos[0].ID)
}

func TestVideoRepo_ListByIDs(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepo(db)

	v1 := makeVideo(t, db, "aaaaaaaaaaa", "One", nil)
	makeVideo(t, db, "bbbbbbbbbbb", "Two", nil)

	videos, err := repo.ListByIDs(context.Background(), []uint{v1.ID, 999})
	require.NoError(t, err)
	require.Len(t, videos, 1, "missing ids are skipped")
	assert.Equal(t, v1.ID, videos[0].ID)

	videos, err = repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestVideoRepo_ListByCategory(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepo(db)
	cat := makeCategory(t, db, "Programming", nil)

	anchor := makeVideo(t, db, "aaaaaaaaaaa", "Anchor", &cat.ID)
	neighbor := makeVideo(t, db, "bbbbbbbbbbb", "Neighbor", &cat.ID)
	loose := makeVideo(t, db, "ccccccccccc", "Loose", nil)
	looseToo := makeVideo(t, db, "ddddddddddd", "Loose Too", nil)

	t.Run("same category excludes anchor", func(t *testing.T) {
		videos, err := repo.ListByCategory(context.Background(), &cat.ID, anchor.ID, 5)
		require.NoError(t, err)
		require.Len(t, videos, 1)
		assert.Equal(t, neighbor.ID, videos[0].ID)
	})

	t.Run("nil selects uncategorized", func(t *testing.T) {
		videos, err := repo.ListByCategory(context.Background(), nil, loose.ID, 5)
		require.NoError(t, err)
		require.Len(t, videos, 1)
		assert.Equal(t, looseToo.ID, videos[0].ID)
	})
}

func TestVideoRepo_Delete(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepo(db)
	graphRepo := NewGraphRepo(db)

	v := makeVideo(t, db, "aaaaaaaaaaa", "Doomed", nil)
	require.NoError(t, graphRepo.Upsert(context.Background(), &models.GraphEntry{VideoID: v.ID}))

	require.NoError(t, repo.Delete(context.Background(), v.ID))

	_, err := repo.GetByID(context.Background(), v.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = graphRepo.GetByVideoID(context.Background(), v.ID)
	assert.ErrorIs(t, err, ErrNotFound, "graph entry is removed with its video")

	assert.ErrorIs(t, repo.Delete(context.Background(), v.ID), ErrNotFound)
}

func TestVideoRepo_TagsRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepo(db)

	v := makeVideo(t, db, "aaaaaaaaaaa", "Tagged", nil)
	v.SetTags([]string{"go", "testing"})
	require.NoError(t, repo.Update(context.Background(), v))

	got, err := repo.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "testing"}, got.TagList())
}
