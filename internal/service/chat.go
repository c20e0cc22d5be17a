package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService vidvault/internal/service ChatService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vidvault/internal/contextutil"
	"vidvault/internal/models"
	"vidvault/internal/rag"
	"vidvault/internal/storage"
)

// noAnswerMessage is the assistant reply recorded when no candidate videos
// carry transcripts.
const noAnswerMessage = "I don't have any video transcripts to answer from yet. Process a video first."

// AskResult is the outcome of one chat turn.
type AskResult struct {
	SessionID string       `json:"session_id"`
	Success   bool         `json:"success"`
	Answer    *string      `json:"answer"`
	Sources   []rag.Source `json:"sources"`
}

// ChatService manages chat sessions and answers questions through the RAG
// engine.
type ChatService interface {
	// StartSession creates a session scoped to the given videos. An empty list
	// means the session queries recent transcripted videos.
	StartSession(ctx context.Context, videoIDs []uint) (*models.ChatSession, error)
	GetSession(ctx context.Context, id string) (*models.ChatSession, error)
	ListSessions(ctx context.Context) ([]models.ChatSession, error)
	DeleteSession(ctx context.Context, id string) error
	// Ask appends the user question, runs a RAG query over the session's
	// videos, and appends the assistant answer with its sources.
	Ask(ctx context.Context, sessionID, question string) (*AskResult, error)
}

type chatService struct {
	sessions storage.SessionStore
	engine   rag.Engine
}

// NewChatService creates a ChatService.
func NewChatService(sessions storage.SessionStore, engine rag.Engine) ChatService {
	return &chatService{sessions: sessions, engine: engine}
}

// StartSession creates a new session.
func (s *chatService) StartSession(ctx context.Context, videoIDs []uint) (*models.ChatSession, error) {
	session := &models.ChatSession{}
	session.SetVideoIDs(videoIDs)
	session.Messages = []byte("[]")

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, WrapError(err, "failed to create chat session")
	}
	return session, nil
}

// GetSession fetches a session by id.
func (s *chatService) GetSession(ctx context.Context, id string) (*models.ChatSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("chat session %s: %w", id, ErrNotFound)
		}
		return nil, WrapError(err, "failed to load chat session")
	}
	return session, nil
}

// ListSessions returns all sessions, newest first.
func (s *chatService) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	return s.sessions.List(ctx)
}

// DeleteSession removes a session.
func (s *chatService) DeleteSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("chat session %s: %w", id, ErrNotFound)
		}
		return WrapError(err, "failed to delete chat session")
	}
	return nil
}

// Ask records the user question, queries the RAG engine, and records the
// assistant answer. A provider failure leaves the user message persisted and
// surfaces as ErrUpstreamUnavailable.
func (s *chatService) Ask(ctx context.Context, sessionID, question string) (*AskResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if question == "" {
		return nil, &ValidationError{Field: "question", Message: "cannot be empty"}
	}

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.AppendMessage(models.ChatMessage{
		Role:      "user",
		Content:   question,
		Timestamp: time.Now().UTC(),
	})
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, WrapError(err, "failed to record question")
	}

	result, err := s.engine.Query(ctx, question, session.VideoIDList())
	if err != nil {
		logger.ErrorContext(ctx, "chat query failed", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("completion provider: %w: %v", ErrUpstreamUnavailable, err)
	}

	if !result.Success {
		msg := noAnswerMessage
		session.AppendMessage(models.ChatMessage{
			Role:      "assistant",
			Content:   msg,
			Timestamp: time.Now().UTC(),
		})
		if err := s.sessions.Update(ctx, session); err != nil {
			return nil, WrapError(err, "failed to record answer")
		}
		return &AskResult{SessionID: sessionID, Success: false, Answer: nil, Sources: result.Sources}, nil
	}

	msgSources := make([]models.MessageSource, 0, len(result.Sources))
	for _, src := range result.Sources {
		msgSources = append(msgSources, models.MessageSource{ID: src.ID, Title: src.Title, URL: src.URL})
	}
	session.AppendMessage(models.ChatMessage{
		Role:      "assistant",
		Content:   *result.Answer,
		Sources:   msgSources,
		Timestamp: time.Now().UTC(),
	})
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, WrapError(err, "failed to record answer")
	}

	return &AskResult{
		SessionID: sessionID,
		Success:   true,
		Answer:    result.Answer,
		Sources:   result.Sources,
	}, nil
}
