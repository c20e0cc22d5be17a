package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_graph_store.go -package=mocks vidvault/internal/storage GraphStore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidvault/internal/models"
)

// GraphStore defines the interface for knowledge-graph entry storage.
// Entries are one-to-one with videos and written only by indexing.
type GraphStore interface {
	// Upsert inserts a graph entry for the video or replaces the metadata on an
	// existing one. A new entry receives a fresh opaque index reference.
	Upsert(ctx context.Context, entry *models.GraphEntry) error
	// GetByVideoID returns ErrNotFound when the video has no entry.
	GetByVideoID(ctx context.Context, videoID uint) (*models.GraphEntry, error)
	DeleteByVideoID(ctx context.Context, videoID uint) error
}

// GraphRepo implements GraphStore over GORM.
type GraphRepo struct {
	db *gorm.DB
}

// NewGraphRepo creates a new GraphRepo.
func NewGraphRepo(db *gorm.DB) *GraphRepo {
	return &GraphRepo{db: db}
}

// Upsert inserts or updates the graph entry keyed by video id. Existing
// entries keep their ID and index reference.
func (r *GraphRepo) Upsert(ctx context.Context, entry *models.GraphEntry) error {
	existing, err := r.GetByVideoID(ctx, entry.VideoID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check existing graph entry: %w", err)
	}

	if existing != nil {
		entry.ID = existing.ID
		entry.IndexRef = existing.IndexRef
		entry.CreatedAt = existing.CreatedAt
	} else if entry.IndexRef == "" {
		entry.IndexRef = "idx-" + uuid.New().String()
	}

	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("failed to upsert graph entry: %w", err)
	}
	return nil
}

// GetByVideoID gets the graph entry for a video. Returns ErrNotFound if the
// video has no entry.
func (r *GraphRepo) GetByVideoID(ctx context.Context, videoID uint) (*models.GraphEntry, error) {
	var entry models.GraphEntry
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&entry).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &entry, nil
}

// DeleteByVideoID removes the graph entry for a video, if any.
func (r *GraphRepo) DeleteByVideoID(ctx context.Context, videoID uint) error {
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&models.GraphEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete graph entry: %w", err)
	}
	return nil
}
