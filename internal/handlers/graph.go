package handlers

import (
	"errors"
	"net/http"

	"vidvault/internal/graph"
	"vidvault/internal/rag"
	"vidvault/internal/service"
	"vidvault/internal/storage"
)

// GraphHandler handles knowledge-graph requests.
type GraphHandler struct {
	videoRepo storage.VideoStore
	engine    rag.Engine
}

// NewGraphHandler creates a GraphHandler.
func NewGraphHandler(videoRepo storage.VideoStore, engine rag.Engine) *GraphHandler {
	return &GraphHandler{videoRepo: videoRepo, engine: engine}
}

// Get handles GET /api/graph, rendering the full nodes/edges graph.
func (h *GraphHandler) Get(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videoRepo.ListAll(r.Context())
	if err != nil {
		writeError(w, r, service.WrapError(err, "failed to load videos"))
		return
	}
	writeJSON(w, http.StatusOK, graph.Build(videos))
}

// Relationships handles GET /api/graph/relationships/{id}.
func (h *GraphHandler) Relationships(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	related, err := h.engine.RelatedVideos(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = service.WrapError(service.ErrNotFound, "video")
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"related": related})
}
