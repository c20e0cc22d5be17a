package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidvault/internal/service"
)

// ChatHandler handles chat session requests.
type ChatHandler struct {
	chat service.ChatService
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chat service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// StartSessionRequest is the payload for creating a session.
type StartSessionRequest struct {
	VideoIDs []uint `json:"video_ids"`
}

// AskRequest is the payload for one chat turn.
type AskRequest struct {
	Question string `json:"question"`
}

// StartSession handles POST /api/chat/sessions.
func (h *ChatHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := h.chat.StartSession(r.Context(), req.VideoIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /api/chat/sessions/{id}.
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chat.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// ListSessions handles GET /api/chat/sessions.
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chat.ListSessions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// DeleteSession handles DELETE /api/chat/sessions/{id}.
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ask handles POST /api/chat/sessions/{id}/ask.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.chat.Ask(r.Context(), chi.URLParam(r, "id"), req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
