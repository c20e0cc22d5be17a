package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vidvault/internal/contextutil"
	"vidvault/internal/models"
	"vidvault/internal/storage"
)

// Result reports the outcome of indexing one video.
type Result struct {
	VideoID    uint `json:"video_id"`
	ChunkCount int  `json:"chunk_count"`
	Indexed    bool `json:"indexed"`
}

// Pipeline records per-video indexing metadata. No embeddings are computed or
// stored; this is chunk-count bookkeeping only.
type Pipeline struct {
	graphRepo storage.GraphStore
	chunkSize int
	logger    *slog.Logger
}

// NewPipeline creates an indexing pipeline. A chunkSize below 1 falls back to
// DefaultChunkSize.
func NewPipeline(graphRepo storage.GraphStore, chunkSize int) *Pipeline {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return &Pipeline{
		graphRepo: graphRepo,
		chunkSize: chunkSize,
		logger:    slog.Default(),
	}
}

// Index chunks the transcript and upserts the video's graph entry with chunk
// count, indexed flag, timestamp, and relationship metadata.
func (p *Pipeline) Index(ctx context.Context, video *models.Video, transcriptText string) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	chunks := Chunk(transcriptText, p.chunkSize)

	entry := &models.GraphEntry{VideoID: video.ID}
	if err := entry.SetIndexMeta(models.IndexMeta{
		ChunkCount: len(chunks),
		Indexed:    true,
		IndexedAt:  time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to encode index metadata: %w", err)
	}
	if err := entry.SetRelMeta(models.RelMeta{
		Title:  video.Title,
		Author: video.Author,
		Topics: []string{},
	}); err != nil {
		return nil, fmt.Errorf("failed to encode relationship metadata: %w", err)
	}

	if err := p.graphRepo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store graph entry: %w", err)
	}

	logger.InfoContext(ctx, "video indexed", "video_id", video.ID, "chunk_count", len(chunks))
	return &Result{
		VideoID:    video.ID,
		ChunkCount: len(chunks),
		Indexed:    true,
	}, nil
}
