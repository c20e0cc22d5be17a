// Package rag answers questions over stored transcripts. Retrieval is coarse:
// candidates come from explicit ids or recency, never vector similarity.
package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks vidvault/internal/rag Engine

import (
	"context"
	"fmt"
	"strings"

	"vidvault/internal/contextutil"
	"vidvault/internal/llm"
	"vidvault/internal/models"
	"vidvault/internal/storage"
)

const (
	// maxCandidates caps recency-based candidate selection.
	maxCandidates = 10
	// maxContextCharsPerVideo caps how much of each transcript enters the
	// prompt. This is the only truncation applied; there is no reranking.
	maxContextCharsPerVideo = 2000
	contextDelimiter        = "\n\n---\n\n"

	// relatedLimit caps RelatedVideos results.
	relatedLimit = 5
	// relatedSimilarity is a fixed placeholder; the only relation rule is
	// category equality.
	relatedSimilarity = 0.75

	answerSystemPrompt = "You answer questions about videos using only the supplied transcript context. " +
		"If the context does not contain the answer, say so plainly."
)

// Source identifies a video whose transcript was offered as context. Every
// candidate used is listed; callers cannot tell which ones actually
// contributed to the answer.
type Source struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// QueryResult is the outcome of one RAG query. Success is false, with a nil
// answer, when no candidate videos carry transcripts.
type QueryResult struct {
	Success bool     `json:"success"`
	Answer  *string  `json:"answer"`
	Sources []Source `json:"sources"`
}

// RelatedVideo is one entry of a relationship lookup.
type RelatedVideo struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	Reason     string  `json:"reason"`
}

// Engine answers questions over stored transcripts and looks up related
// videos.
type Engine interface {
	// Query answers the question against the given videos, or against the most
	// recent transcripted videos when videoIDs is empty. It fails softly
	// (Success false, nil error) when no candidates exist.
	Query(ctx context.Context, question string, videoIDs []uint) (QueryResult, error)
	// RelatedVideos returns up to 5 videos sharing the video's category.
	RelatedVideos(ctx context.Context, videoID uint) ([]RelatedVideo, error)
}

type ragEngine struct {
	videoRepo storage.VideoStore
	provider  llm.Provider
}

// NewEngine creates a RAG engine.
func NewEngine(videoRepo storage.VideoStore, provider llm.Provider) Engine {
	return &ragEngine{videoRepo: videoRepo, provider: provider}
}

// Query selects candidate videos, assembles their transcript context, and
// delegates answer synthesis to the completion provider.
func (e *ragEngine) Query(ctx context.Context, question string, videoIDs []uint) (QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "rag query started", "question", question, "video_ids", videoIDs)

	candidates, err := e.selectCandidates(ctx, videoIDs)
	if err != nil {
		return QueryResult{}, err
	}

	// Keep only candidates that actually carry a transcript.
	withTranscript := candidates[:0]
	for _, v := range candidates {
		if v.HasTranscript() {
			withTranscript = append(withTranscript, v)
		}
	}
	candidates = withTranscript

	if len(candidates) == 0 {
		logger.InfoContext(ctx, "rag query found no candidates with transcripts")
		return QueryResult{Success: false, Answer: nil, Sources: []Source{}}, nil
	}

	contextText, sources := buildContext(candidates)

	answer, err := e.provider.Generate(ctx, llm.GenerateRequest{
		Prompt:       buildQuestionPrompt(question, contextText),
		SystemPrompt: answerSystemPrompt,
		Temperature:  0.2,
		MaxTokens:    1000,
	})
	if err != nil {
		logger.ErrorContext(ctx, "rag answer generation failed", "error", err)
		return QueryResult{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	logger.InfoContext(ctx, "rag query answered", "sources", len(sources), "answer_length", len(answer))
	return QueryResult{Success: true, Answer: &answer, Sources: sources}, nil
}

// selectCandidates loads exactly the requested videos, or falls back to the
// most recently created videos that have a transcript.
func (e *ragEngine) selectCandidates(ctx context.Context, videoIDs []uint) ([]models.Video, error) {
	if len(videoIDs) > 0 {
		videos, err := e.videoRepo.ListByIDs(ctx, videoIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load requested videos: %w", err)
		}
		return videos, nil
	}
	videos, err := e.videoRepo.ListRecentWithTranscript(ctx, maxCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent videos: %w", err)
	}
	return videos, nil
}

// buildContext concatenates each candidate's title and the head of its
// transcript, separated by a fixed delimiter.
func buildContext(videos []models.Video) (string, []Source) {
	parts := make([]string, 0, len(videos))
	sources := make([]Source, 0, len(videos))

	for _, v := range videos {
		text := *v.Transcript
		if len(text) > maxContextCharsPerVideo {
			text = text[:maxContextCharsPerVideo]
		}
		parts = append(parts, fmt.Sprintf("Video: %s\n%s", v.Title, text))
		sources = append(sources, Source{ID: v.ID, Title: v.Title, URL: v.URL})
	}

	return strings.Join(parts, contextDelimiter), sources
}

func buildQuestionPrompt(question, contextText string) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the context below.\n\nContext:\n")
	b.WriteString(contextText)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

// RelatedVideos returns up to 5 videos sharing the video's category, each with
// the fixed placeholder similarity. An uncategorized video relates only to
// other uncategorized videos.
func (e *ragEngine) RelatedVideos(ctx context.Context, videoID uint) ([]RelatedVideo, error) {
	video, err := e.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	neighbors, err := e.videoRepo.ListByCategory(ctx, video.CategoryID, video.ID, relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load related videos: %w", err)
	}

	related := make([]RelatedVideo, 0, len(neighbors))
	for _, v := range neighbors {
		related = append(related, RelatedVideo{
			ID:         v.ID,
			Title:      v.Title,
			Similarity: relatedSimilarity,
			Reason:     "Same category",
		})
	}
	return related, nil
}
