package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"vidvault/internal/models"
	"vidvault/internal/service"
	"vidvault/internal/storage"
)

// VideoHandler handles video CRUD, processing and categorization requests.
type VideoHandler struct {
	videos   service.VideoService
	markdown goldmark.Markdown
}

// NewVideoHandler creates a VideoHandler.
func NewVideoHandler(videos service.VideoService) *VideoHandler {
	return &VideoHandler{
		videos: videos,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// VideoListResponse is the paged video listing payload.
type VideoListResponse struct {
	Videos []models.Video `json:"videos"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// Create handles POST /api/videos.
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.AddVideoInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	video, err := h.videos.Add(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

// Get handles GET /api/videos/{id}.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	video, err := h.videos.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// List handles GET /api/videos with category/status/search filters and
// limit/offset paging.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := storage.ListVideosOptions{
		WatchStatus: q.Get("status"),
		Search:      q.Get("search"),
		Limit:       50,
	}
	if raw := q.Get("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, r, &service.ValidationError{Field: "category_id", Message: "must be a positive integer"})
			return
		}
		id := uint(parsed)
		opts.CategoryID = &id
	}
	if raw := q.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			opts.Limit = parsed
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			opts.Offset = parsed
		}
	}

	videos, total, err := h.videos.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, VideoListResponse{
		Videos: videos,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// Update handles PUT /api/videos/{id}.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.UpdateVideoInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	video, err := h.videos.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// Delete handles DELETE /api/videos/{id}.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.videos.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Process handles POST /api/videos/{id}/process. The whole pipeline runs
// within this request.
func (h *VideoHandler) Process(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.videos.Process(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AutoCategorize handles POST /api/videos/{id}/auto-categorize.
func (h *VideoHandler) AutoCategorize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.videos.AutoCategorize(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// BatchCategorizeRequest is the payload for batch categorization.
type BatchCategorizeRequest struct {
	VideoIDs []uint `json:"video_ids"`
}

// AutoCategorizeBatch handles POST /api/videos/auto-categorize/batch.
func (h *VideoHandler) AutoCategorizeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchCategorizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.VideoIDs) == 0 {
		writeError(w, r, &service.ValidationError{Field: "video_ids", Message: "cannot be empty"})
		return
	}
	results, err := h.videos.AutoCategorizeBatch(r.Context(), req.VideoIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// SummaryHTML handles GET /api/videos/{id}/summary/html, rendering the
// detailed summary markdown for the dashboard.
func (h *VideoHandler) SummaryHTML(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	video, err := h.videos.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if video.SummaryDetailed == nil {
		writeError(w, r, service.WrapError(service.ErrNotFound, "video has no summary"))
		return
	}

	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(*video.SummaryDetailed), &buf); err != nil {
		writeError(w, r, service.WrapError(err, "failed to render summary"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
