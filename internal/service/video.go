package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_video_service.go -package=mocks -mock_names=VideoService=MockVideoService vidvault/internal/service VideoService

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"vidvault/internal/categorizer"
	"vidvault/internal/contextutil"
	"vidvault/internal/indexer"
	"vidvault/internal/models"
	"vidvault/internal/storage"
	"vidvault/internal/summarizer"
	"vidvault/internal/transcript"
)

var youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// AddVideoInput holds the fields for adding a video. Either YouTubeID or URL
// must identify the video.
type AddVideoInput struct {
	YouTubeID       string     `json:"youtube_id"`
	URL             string     `json:"url"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Description     string     `json:"description"`
	DurationSeconds *int       `json:"duration_seconds"`
	UploadedAt      *time.Time `json:"uploaded_at"`
	CategoryID      *uint      `json:"category_id"`
	Tags            []string   `json:"tags"`
}

// UpdateVideoInput holds optional field updates; nil fields are untouched.
type UpdateVideoInput struct {
	Title       *string   `json:"title"`
	Author      *string   `json:"author"`
	Description *string   `json:"description"`
	CategoryID  *uint     `json:"category_id"`
	ClearCategory bool    `json:"clear_category"`
	Tags        []string  `json:"tags"`
	WatchStatus *string   `json:"watch_status"`
}

// KeyMoment is one evenly sampled caption segment with its formatted offset.
type KeyMoment struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// ProcessResult reports one synchronous processing run: transcript acquisition,
// summarization and indexing.
type ProcessResult struct {
	VideoID      uint               `json:"video_id"`
	Success      bool               `json:"success"`
	Reason       string             `json:"reason,omitempty"`
	SegmentCount int                `json:"segment_count,omitempty"`
	Language     string             `json:"language,omitempty"`
	KeyMoments   []KeyMoment        `json:"key_moments,omitempty"`
	Summary      *summarizer.Summary `json:"summary,omitempty"`
	Index        *indexer.Result    `json:"index,omitempty"`
}

// AutoCategorizeResult pairs the applied suggestion with its video.
type AutoCategorizeResult struct {
	VideoID    uint                  `json:"video_id"`
	Suggestion categorizer.Suggestion `json:"suggestion"`
}

// VideoService implements video CRUD and the processing pipeline.
type VideoService interface {
	Add(ctx context.Context, in AddVideoInput) (*models.Video, error)
	Get(ctx context.Context, id uint) (*models.Video, error)
	List(ctx context.Context, opts storage.ListVideosOptions) ([]models.Video, int64, error)
	Update(ctx context.Context, id uint, in UpdateVideoInput) (*models.Video, error)
	Delete(ctx context.Context, id uint) error
	// Process runs acquisition, summarization and indexing synchronously
	// within the request. Missing captions yield a reported "no transcript"
	// result, not an error.
	Process(ctx context.Context, id uint) (*ProcessResult, error)
	// AutoCategorize applies the categorizer's suggestion to the video,
	// creating the suggested category when it is new.
	AutoCategorize(ctx context.Context, id uint) (*AutoCategorizeResult, error)
	// AutoCategorizeBatch applies AutoCategorize to each id sequentially.
	// Per-item failures degrade that item only.
	AutoCategorizeBatch(ctx context.Context, ids []uint) ([]AutoCategorizeResult, error)
}

type videoService struct {
	videoRepo    storage.VideoStore
	categoryRepo storage.CategoryStore
	captions     transcript.Source
	summarizer   *summarizer.Summarizer
	categorizer  *categorizer.Categorizer
	pipeline     *indexer.Pipeline
}

// NewVideoService creates a VideoService.
func NewVideoService(
	videoRepo storage.VideoStore,
	categoryRepo storage.CategoryStore,
	captions transcript.Source,
	sum *summarizer.Summarizer,
	cat *categorizer.Categorizer,
	pipeline *indexer.Pipeline,
) VideoService {
	return &videoService{
		videoRepo:    videoRepo,
		categoryRepo: categoryRepo,
		captions:     captions,
		summarizer:   sum,
		categorizer:  cat,
		pipeline:     pipeline,
	}
}

// Add validates the input, resolves the YouTube id, and creates the video in
// the unwatched state with empty tags.
func (s *videoService) Add(ctx context.Context, in AddVideoInput) (*models.Video, error) {
	youtubeID := strings.TrimSpace(in.YouTubeID)
	if youtubeID == "" && in.URL != "" {
		extracted, err := ExtractYouTubeID(in.URL)
		if err != nil {
			return nil, err
		}
		youtubeID = extracted
	}
	if youtubeID == "" {
		return nil, &ValidationError{Field: "youtube_id", Message: "youtube_id or url is required"}
	}
	if !youtubeIDPattern.MatchString(youtubeID) {
		return nil, &ValidationError{Field: "youtube_id", Message: "malformed video identifier"}
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "cannot be empty"}
	}

	if _, err := s.videoRepo.GetByYouTubeID(ctx, youtubeID); err == nil {
		return nil, fmt.Errorf("video %s: %w", youtubeID, ErrConflict)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, WrapError(err, "failed to check for duplicate")
	}

	videoURL := in.URL
	if videoURL == "" {
		videoURL = "https://www.youtube.com/watch?v=" + youtubeID
	}

	video := &models.Video{
		YouTubeID:       youtubeID,
		URL:             videoURL,
		Title:           in.Title,
		Author:          in.Author,
		Description:     in.Description,
		DurationSeconds: in.DurationSeconds,
		UploadedAt:      in.UploadedAt,
		CategoryID:      in.CategoryID,
		WatchStatus:     models.StatusUnwatched,
	}
	video.SetTags(in.Tags)

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, WrapError(err, "failed to create video")
	}
	return video, nil
}

// Get fetches a video by id.
func (s *videoService) Get(ctx context.Context, id uint) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("video %d: %w", id, ErrNotFound)
		}
		return nil, WrapError(err, "failed to load video")
	}
	return video, nil
}

// List returns a filtered, paged list of videos plus the total count.
func (s *videoService) List(ctx context.Context, opts storage.ListVideosOptions) ([]models.Video, int64, error) {
	return s.videoRepo.List(ctx, opts)
}

// Update applies the non-nil fields and saves the video.
func (s *videoService) Update(ctx context.Context, id uint, in UpdateVideoInput) (*models.Video, error) {
	video, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, &ValidationError{Field: "title", Message: "cannot be empty"}
		}
		video.Title = *in.Title
	}
	if in.Author != nil {
		video.Author = *in.Author
	}
	if in.Description != nil {
		video.Description = *in.Description
	}
	if in.ClearCategory {
		video.CategoryID = nil
		video.Category = nil
	} else if in.CategoryID != nil {
		video.CategoryID = in.CategoryID
	}
	if in.Tags != nil {
		video.SetTags(in.Tags)
	}
	if in.WatchStatus != nil {
		switch *in.WatchStatus {
		case models.StatusUnwatched, models.StatusWatching, models.StatusWatched:
			video.WatchStatus = *in.WatchStatus
		default:
			return nil, &ValidationError{Field: "watch_status", Message: "must be unwatched, watching or watched"}
		}
	}

	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, WrapError(err, "failed to update video")
	}
	return video, nil
}

// Delete removes the video and its graph entry.
func (s *videoService) Delete(ctx context.Context, id uint) error {
	if err := s.videoRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("video %d: %w", id, ErrNotFound)
		}
		return WrapError(err, "failed to delete video")
	}
	return nil
}

// Process acquires the transcript, summarizes it, and records indexing
// metadata, each step synchronous. Summarization never aborts the run once a
// transcript exists; missing captions are reported, not raised. Concurrent
// runs for the same video are not excluded and the last write wins.
func (s *videoService) Process(ctx context.Context, id uint) (*ProcessResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	video, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result, segments, err := transcript.Acquire(ctx, s.captions, video.YouTubeID)
	if err != nil {
		if errors.Is(err, transcript.ErrNoTranscript) {
			logger.InfoContext(ctx, "no transcript available", "video_id", id, "youtube_id", video.YouTubeID)
			return &ProcessResult{
				VideoID: id,
				Success: false,
				Reason:  "no transcript available for this video",
			}, nil
		}
		return nil, fmt.Errorf("caption source: %w: %v", ErrUpstreamUnavailable, err)
	}

	video.Transcript = &result.Text
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, WrapError(err, "failed to store transcript")
	}
	logger.InfoContext(ctx, "transcript acquired",
		"video_id", id, "segments", result.SegmentCount, "language", result.Language)

	summary := s.summarizer.Summarize(ctx, result.Text, video.Title)
	video.SummaryQuick = &summary.Quick
	video.SummaryDetailed = &summary.Detailed
	video.SetKeyPoints(summary.KeyPoints)
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, WrapError(err, "failed to store summary")
	}

	indexResult, err := s.pipeline.Index(ctx, video, result.Text)
	if err != nil {
		return nil, WrapError(err, "failed to index video")
	}

	return &ProcessResult{
		VideoID:      id,
		Success:      true,
		SegmentCount: result.SegmentCount,
		Language:     result.Language,
		KeyMoments:   keyMoments(segments),
		Summary:      &summary,
		Index:        indexResult,
	}, nil
}

// keyMoments samples up to 10 evenly spaced caption segments and pairs each
// with its formatted start offset.
func keyMoments(segments []transcript.Segment) []KeyMoment {
	sampled := transcript.KeySegments(segments, 10)
	moments := make([]KeyMoment, 0, len(sampled))
	for _, seg := range sampled {
		moments = append(moments, KeyMoment{
			Timestamp: transcript.FormatTimestamp(seg.Start),
			Text:      seg.Text,
		})
	}
	return moments
}

// AutoCategorize applies the categorizer's suggestion to the video, creating
// the suggested category when it does not exist yet.
func (s *videoService) AutoCategorize(ctx context.Context, id uint) (*AutoCategorizeResult, error) {
	video, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list categories")
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}

	suggestion := s.categorizer.Suggest(ctx, video, names)

	category, err := s.categoryRepo.GetByName(ctx, suggestion.SuggestedCategory)
	if errors.Is(err, storage.ErrNotFound) {
		category = &models.Category{Name: suggestion.SuggestedCategory}
		if err := s.categoryRepo.Create(ctx, category); err != nil {
			return nil, WrapError(err, "failed to create suggested category")
		}
	} else if err != nil {
		return nil, WrapError(err, "failed to look up suggested category")
	}

	video.CategoryID = &category.ID
	if len(suggestion.Tags) > 0 {
		video.SetTags(suggestion.Tags)
	}
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, WrapError(err, "failed to apply suggestion")
	}

	return &AutoCategorizeResult{VideoID: id, Suggestion: suggestion}, nil
}

// AutoCategorizeBatch runs AutoCategorize per video, one at a time. A video
// that cannot be loaded is skipped; suggestion-level failures already degrade
// to the keyword fallback inside the categorizer.
func (s *videoService) AutoCategorizeBatch(ctx context.Context, ids []uint) ([]AutoCategorizeResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	results := make([]AutoCategorizeResult, 0, len(ids))
	for _, id := range ids {
		res, err := s.AutoCategorize(ctx, id)
		if err != nil {
			logger.WarnContext(ctx, "batch categorization item failed", "video_id", id, "error", err)
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

// ExtractYouTubeID pulls the 11-character video id out of a YouTube URL.
// Supported forms: watch?v=, youtu.be/, embed/ and shorts/ paths.
func ExtractYouTubeID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &ValidationError{Field: "url", Message: "malformed URL"}
	}

	if v := u.Query().Get("v"); v != "" {
		if youtubeIDPattern.MatchString(v) {
			return v, nil
		}
		return "", &ValidationError{Field: "url", Message: "malformed video identifier"}
	}

	path := strings.Trim(u.Path, "/")
	path = strings.TrimPrefix(path, "embed/")
	path = strings.TrimPrefix(path, "shorts/")
	if youtubeIDPattern.MatchString(path) {
		return path, nil
	}

	return "", &ValidationError{Field: "url", Message: "could not extract video identifier"}
}
