package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"vidvault/internal/llm"
	"vidvault/internal/llm/mocks"
	"vidvault/internal/models"
	"vidvault/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	cat := &models.Category{Name: name}
	require.NoError(t, storage.NewCategoryRepo(db).Create(context.Background(), cat))
	return cat.ID
}

func seedVideo(t *testing.T, repo *storage.VideoRepo, youtubeID, title string, categoryID *uint, transcript string) *models.Video {
	t.Helper()
	v := &models.Video{
		YouTubeID:   youtubeID,
		URL:         "https://www.youtube.com/watch?v=" + youtubeID,
		Title:       title,
		CategoryID:  categoryID,
		WatchStatus: models.StatusUnwatched,
	}
	if transcript != "" {
		v.Transcript = &transcript
	}
	require.NoError(t, repo.Create(context.Background(), v))
	return v
}

func TestQuery(t *testing.T) {
	repo := storage.NewVideoRepo(newTestDB(t))
	v1 := seedVideo(t, repo, "aaaaaaaaaaa", "Go Basics", nil, "goroutines are cheap")
	v2 := seedVideo(t, repo, "bbbbbbbbbbb", "Go Channels", nil, "channels synchronize goroutines")

	var captured string
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.GenerateRequest) (string, error) {
			captured = req.Prompt
			return "Goroutines are lightweight.", nil
		})

	engine := NewEngine(repo, provider)
	got, err := engine.Query(context.Background(), "what are goroutines?", []uint{v1.ID, v2.ID})
	require.NoError(t, err)

	require.True(t, got.Success)
	require.NotNil(t, got.Answer)
	require.Equal(t, "Goroutines are lightweight.", *got.Answer)
	require.Len(t, got.Sources, 2)

	require.Contains(t, captured, "Video: Go Basics")
	require.Contains(t, captured, "goroutines are cheap")
	require.Contains(t, captured, contextDelimiter)
	require.Contains(t, captured, "what are goroutines?")
}

func TestQuery_SkipsVideosWithoutTranscript(t *testing.T) {
	repo := storage.NewVideoRepo(newTestDB(t))
	v1 := seedVideo(t, repo, "aaaaaaaaaaa", "Has Transcript", nil, "some words")
	v2 := seedVideo(t, repo, "bbbbbbbbbbb", "No Transcript", nil, "")

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("answer", nil)

	engine := NewEngine(repo, provider)
	got, err := engine.Query(context.Background(), "q", []uint{v1.ID, v2.ID})
	require.NoError(t, err)

	require.True(t, got.Success)
	require.Len(t, got.Sources, 1)
	require.Equal(t, v1.ID, got.Sources[0].ID)
}

func TestQuery_NoCandidatesSoftFail(t *testing.T) {
	repo := storage.NewVideoRepo(newTestDB(t))
	seedVideo(t, repo, "aaaaaaaaaaa", "No Transcript", nil, "")

	// The provider must not be called at all.
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	engine := NewEngine(repo, provider)
	got, err := engine.Query(context.Background(), "q", nil)
	require.NoError(t, err)

	require.False(t, got.Success)
	require.Nil(t, got.Answer)
	require.Empty(t, got.Sources)
}

func TestQuery_RecencyFallback(t *testing.T) {
	repo := storage.NewVideoRepo(newTestDB(t))
	for i := 0; i < maxCandidates+3; i++ {
		seedVideo(t, repo, fmt.Sprintf("vid%08d", i), fmt.Sprintf("Video %d", i), nil, "transcript words")
	}

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("answer", nil)

	engine := NewEngine(repo, provider)
	got, err := engine.Query(context.Background(), "q", nil)
	require.NoError(t, err)
	require.True(t, got.Success)
	require.Len(t, got.Sources, maxCandidates)
}

func TestQuery_ProviderErrorPropagates(t *testing.T) {
	repo := storage.NewVideoRepo(newTestDB(t))
	v := seedVideo(t, repo, "aaaaaaaaaaa", "Video", nil, "words")

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("", &llm.ProviderError{Provider: "openai", Err: fmt.Errorf("down")})

	engine := NewEngine(repo, provider)
	_, err := engine.Query(context.Background(), "q", []uint{v.ID})
	require.Error(t, err)
}

func TestQuery_TruncatesLongTranscripts(t *testing.T) {
	repo := storage.NewVideoRepo(newTestDB(t))
	long := strings.Repeat("w", maxContextCharsPerVideo+500)
	v := seedVideo(t, repo, "aaaaaaaaaaa", "Long", nil, long)

	var captured string
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.GenerateRequest) (string, error) {
			captured = req.Prompt
			return "answer", nil
		})

	engine := NewEngine(repo, provider)
	_, err := engine.Query(context.Background(), "q", []uint{v.ID})
	require.NoError(t, err)

	require.LessOrEqual(t, strings.Count(captured, "w"), maxContextCharsPerVideo)
}

func TestRelatedVideos(t *testing.T) {
	db := newTestDB(t)
	repo := storage.NewVideoRepo(db)
	catID := seedCategory(t, db, "Programming")
	otherCatID := seedCategory(t, db, "Music")

	v := seedVideo(t, repo, "aaaaaaaaaaa", "Anchor", &catID, "")
	n1 := seedVideo(t, repo, "bbbbbbbbbbb", "Neighbor 1", &catID, "")
	n2 := seedVideo(t, repo, "ccccccccccc", "Neighbor 2", &catID, "")
	seedVideo(t, repo, "ddddddddddd", "Other Category", &otherCatID, "")
	seedVideo(t, repo, "eeeeeeeeeee", "Uncategorized", nil, "")

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	engine := NewEngine(repo, provider)
	got, err := engine.RelatedVideos(context.Background(), v.ID)
	require.NoError(t, err)

	require.Len(t, got, 2)
	require.ElementsMatch(t, []uint{n1.ID, n2.ID}, []uint{got[0].ID, got[1].ID})
	for _, r := range got {
		require.Equal(t, relatedSimilarity, r.Similarity)
		require.Equal(t, "Same category", r.Reason)
	}
}

func TestRelatedVideos_Uncategorized(t *testing.T) {
	db := newTestDB(t)
	repo := storage.NewVideoRepo(db)
	catID := seedCategory(t, db, "Programming")

	v := seedVideo(t, repo, "aaaaaaaaaaa", "Uncategorized Anchor", nil, "")
	other := seedVideo(t, repo, "bbbbbbbbbbb", "Also Uncategorized", nil, "")
	seedVideo(t, repo, "ccccccccccc", "Categorized", &catID, "")

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	engine := NewEngine(repo, provider)
	got, err := engine.RelatedVideos(context.Background(), v.ID)
	require.NoError(t, err)

	require.Len(t, got, 1)
	require.Equal(t, other.ID, got[0].ID)
}

func TestRelatedVideos_UnknownVideo(t *testing.T) {
	repo := storage.NewVideoRepo(newTestDB(t))

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	engine := NewEngine(repo, provider)
	_, err := engine.RelatedVideos(context.Background(), 999)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
