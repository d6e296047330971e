package core

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/markdave123-py/SpiderCare/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres so higher layers never depend on a specific DB.
// Every conversation query is scoped by user id.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	// DeleteUser removes the user with its sessions, history and settings
	// as a single unit.
	DeleteUser(ctx context.Context, userID string) error

	CreateSession(ctx context.Context, session *models.Session) error
	// GetSessionByToken only returns sessions expiring after now.
	GetSessionByToken(ctx context.Context, token string, now time.Time) (*models.Session, error)
	InvalidateSession(ctx context.Context, token string) error
	InvalidateUserSessions(ctx context.Context, userID string) error
	CleanupExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	UpdateUserSettings(ctx context.Context, settings *models.UserSettings) error

	SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error
	GetConversationMessages(ctx context.Context, userID, conversationID string) ([]models.ChatMessage, error)
	ListConversations(ctx context.Context, userID string, page, limit int) (*models.ConversationPage, error)
	SearchConversations(ctx context.Context, userID, query string, page, limit int) (*models.ConversationPage, error)
	DeleteConversation(ctx context.Context, userID, conversationID string) error

	Ping(ctx context.Context) error
	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
