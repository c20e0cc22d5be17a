package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_video_store.go -package=mocks vidvault/internal/storage VideoStore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vidvault/internal/models"
)

// ListVideosOptions filters and pages video listings.
type ListVideosOptions struct {
	// CategoryID filters by category when non-nil.
	CategoryID *uint
	// WatchStatus filters by watch status when non-empty.
	WatchStatus string
	// Search matches a substring of title or author, case-insensitive.
	Search string
	Limit  int
	Offset int
}

// VideoStore defines the interface for video storage operations.
type VideoStore interface {
	Create(ctx context.Context, video *models.Video) error
	// GetByID returns ErrNotFound when no video has the given id.
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	// GetByYouTubeID returns ErrNotFound when no video has the given source id.
	GetByYouTubeID(ctx context.Context, youtubeID string) (*models.Video, error)
	// List returns a page of videos plus the unpaged total.
	List(ctx context.Context, opts ListVideosOptions) ([]models.Video, int64, error)
	// ListAll returns every video, oldest first.
	ListAll(ctx context.Context) ([]models.Video, error)
	// ListRecentWithTranscript returns up to limit videos carrying a non-empty
	// transcript, newest first.
	ListRecentWithTranscript(ctx context.Context, limit int) ([]models.Video, error)
	// ListByIDs returns videos matching the given ids; missing ids are skipped.
	ListByIDs(ctx context.Context, ids []uint) ([]models.Video, error)
	// ListByCategory returns up to limit videos in the given category (nil for
	// uncategorized), excluding excludeID.
	ListByCategory(ctx context.Context, categoryID *uint, excludeID uint, limit int) ([]models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error
}

// VideoRepo implements VideoStore over GORM.
type VideoRepo struct {
	db *gorm.DB
}

// NewVideoRepo creates a new VideoRepo.
func NewVideoRepo(db *gorm.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

// Create inserts a new video record.
func (r *VideoRepo) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// GetByID gets a video by primary key. Returns ErrNotFound if not found.
func (r *VideoRepo) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).Preload("Category").First(&video, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &video, nil
}

// GetByYouTubeID gets a video by its source platform id. Returns ErrNotFound
// if not found.
func (r *VideoRepo) GetByYouTubeID(ctx context.Context, youtubeID string) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).Where("you_tube_id = ?", youtubeID).First(&video).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &video, nil
}

// List returns a filtered, paged list of videos plus the unpaged total count.
func (r *VideoRepo) List(ctx context.Context, opts ListVideosOptions) ([]models.Video, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Video{})
	if opts.CategoryID != nil {
		q = q.Where("category_id = ?", *opts.CategoryID)
	}
	if opts.WatchStatus != "" {
		q = q.Where("watch_status = ?", opts.WatchStatus)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where("title LIKE ? OR author LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	var videos []models.Video
	if err := q.Order("created_at DESC").Preload("Category").Find(&videos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, total, nil
}

// ListAll returns every video, oldest first.
func (r *VideoRepo) ListAll(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.WithContext(ctx).Order("id ASC").Preload("Category").Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// ListRecentWithTranscript returns up to limit videos that have a non-empty
// transcript, most recently created first.
func (r *VideoRepo) ListRecentWithTranscript(ctx context.Context, limit int) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.WithContext(ctx).
		Where("transcript IS NOT NULL AND transcript != ''").
		Order("created_at DESC").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list videos with transcript: %w", err)
	}
	return videos, nil
}

// ListByIDs returns videos matching the given ids. Missing ids are skipped,
// not reported.
func (r *VideoRepo) ListByIDs(ctx context.Context, ids []uint) ([]models.Video, error) {
	if len(ids) == 0 {
		return []models.Video{}, nil
	}
	var videos []models.Video
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos by ids: %w", err)
	}
	return videos, nil
}

// ListByCategory returns up to limit videos sharing the given category,
// excluding excludeID. A nil categoryID selects uncategorized videos.
func (r *VideoRepo) ListByCategory(ctx context.Context, categoryID *uint, excludeID uint, limit int) ([]models.Video, error) {
	q := r.db.WithContext(ctx).Where("id != ?", excludeID)
	if categoryID == nil {
		q = q.Where("category_id IS NULL")
	} else {
		q = q.Where("category_id = ?", *categoryID)
	}
	var videos []models.Video
	if err := q.Limit(limit).Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos by category: %w", err)
	}
	return videos, nil
}

// Update saves the full video record.
func (r *VideoRepo) Update(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Save(video).Error; err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

// Delete removes a video and its graph entry. Returns ErrNotFound when the
// video does not exist.
func (r *VideoRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Video{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete video: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.GraphEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete graph entry: %w", err)
		}
		return nil
	})
}
