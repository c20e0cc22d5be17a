package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_session_store.go -package=mocks vidvault/internal/storage SessionStore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidvault/internal/models"
)

// SessionStore defines the interface for chat session storage. Sessions are
// append-only and never expired.
type SessionStore interface {
	// Create inserts a session, generating a UUID when the id is empty.
	Create(ctx context.Context, session *models.ChatSession) error
	// GetByID returns ErrNotFound when no session has the given id.
	GetByID(ctx context.Context, id string) (*models.ChatSession, error)
	// List returns all sessions, newest first.
	List(ctx context.Context) ([]models.ChatSession, error)
	Update(ctx context.Context, session *models.ChatSession) error
	Delete(ctx context.Context, id string) error
}

// SessionRepo implements SessionStore over GORM.
type SessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new chat session. A UUID is generated when no id is set.
func (r *SessionRepo) Create(ctx context.Context, session *models.ChatSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create chat session: %w", err)
	}
	return nil
}

// GetByID gets a session by id. Returns ErrNotFound if not found.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &session, nil
}

// List returns all sessions, most recent first.
func (r *SessionRepo) List(ctx context.Context) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	return sessions, nil
}

// Update saves the full session record.
func (r *SessionRepo) Update(ctx context.Context, session *models.ChatSession) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("failed to update chat session: %w", err)
	}
	return nil
}

// Delete removes a session. Returns ErrNotFound when it does not exist.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ChatSession{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete chat session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
