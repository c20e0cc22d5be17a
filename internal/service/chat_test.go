package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vidvault/internal/rag"
	"vidvault/internal/storage"
	"vidvault/internal/transcript"
)

func newChatService(t *testing.T) (*fixture, ChatService) {
	t.Helper()
	f := newFixture(t)
	engine := rag.NewEngine(f.videoRepo, f.provider)
	return f, NewChatService(storage.NewSessionRepo(f.db), engine)
}

// processVideo adds a video and runs it through the pipeline so it carries a
// transcript for chat to draw on.
func processVideo(t *testing.T, f *fixture, youtubeID, title, transcriptText string) uint {
	t.Helper()

	f.captions.segments = []transcript.Segment{{Text: transcriptText, Language: "en"}}
	f.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return(`{"quick_summary":"q","detailed_summary":"d","key_points":[]}`, nil)

	video, err := f.videos.Add(context.Background(), AddVideoInput{YouTubeID: youtubeID, Title: title})
	require.NoError(t, err)
	_, err = f.videos.Process(context.Background(), video.ID)
	require.NoError(t, err)
	return video.ID
}

func TestChatService_Sessions(t *testing.T) {
	_, svc := newChatService(t)

	session, err := svc.StartSession(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, []uint{1, 2}, session.VideoIDList())
	assert.Empty(t, session.MessageList())

	got, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	sessions, err := svc.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	require.NoError(t, svc.DeleteSession(context.Background(), session.ID))
	_, err = svc.GetSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSession(context.Background(), session.ID), ErrNotFound)
}

func TestChatService_Ask(t *testing.T) {
	f, svc := newChatService(t)
	videoID := processVideo(t, f, "dQw4w9WgXcQ", "Go Talk", "goroutines are cheap")

	f.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("Goroutines are lightweight threads.", nil)

	session, err := svc.StartSession(context.Background(), []uint{videoID})
	require.NoError(t, err)

	result, err := svc.Ask(context.Background(), session.ID, "what are goroutines?")
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.Answer)
	assert.Equal(t, "Goroutines are lightweight threads.", *result.Answer)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, videoID, result.Sources[0].ID)

	// Both turns are persisted, the answer with its sources.
	stored, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	msgs := stored.MessageList()
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "what are goroutines?", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
	require.Len(t, msgs[1].Sources, 1)
	assert.Equal(t, videoID, msgs[1].Sources[0].ID)
}

func TestChatService_Ask_NoTranscripts(t *testing.T) {
	_, svc := newChatService(t)

	session, err := svc.StartSession(context.Background(), nil)
	require.NoError(t, err)

	result, err := svc.Ask(context.Background(), session.ID, "anything there?")
	require.NoError(t, err, "an empty knowledge base fails softly")

	assert.False(t, result.Success)
	assert.Nil(t, result.Answer)

	stored, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	msgs := stored.MessageList()
	require.Len(t, msgs, 2)
	assert.Equal(t, noAnswerMessage, msgs[1].Content)
}

func TestChatService_Ask_ProviderFailure(t *testing.T) {
	f, svc := newChatService(t)
	videoID := processVideo(t, f, "dQw4w9WgXcQ", "Go Talk", "words")

	f.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("", assert.AnError)

	session, err := svc.StartSession(context.Background(), []uint{videoID})
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), session.ID, "question")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	// The user question stays persisted even though the answer failed.
	stored, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	msgs := stored.MessageList()
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)
}

func TestChatService_Ask_Validation(t *testing.T) {
	_, svc := newChatService(t)

	_, err := svc.Ask(context.Background(), "whatever", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Ask(context.Background(), "missing-session", "question")
	assert.ErrorIs(t, err, ErrNotFound)
}
