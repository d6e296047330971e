package models

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PublicUser is the subset of a user that is returned to clients and
// attached to authenticated requests.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Session binds an opaque bearer token to a user until ExpiresAt.
type Session struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Valid reports whether the session expires strictly after now.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.ExpiresAt.After(now)
}

// UserSettings is one-to-one with User.
type UserSettings struct {
	UserID                string  `db:"user_id" json:"-"`
	DisplayName           *string `db:"display_name" json:"display_name"`
	Theme                 string  `db:"theme" json:"theme"`
	MessageHistoryEnabled bool    `db:"message_history_enabled" json:"message_history_enabled"`
	NotificationEnabled   bool    `db:"notification_enabled" json:"notification_enabled"`
}

// DefaultSettings are created alongside every new user.
func DefaultSettings(userID string) UserSettings {
	return UserSettings{
		UserID:                userID,
		Theme:                 "dark",
		MessageHistoryEnabled: true,
		NotificationEnabled:   false,
	}
}

// ChatMessage is one line of a conversation, either from the user or the
// generated reply. UserID is nil for anonymous chat.
type ChatMessage struct {
	ID             string    `db:"id" json:"id"`
	UserID         *string   `db:"user_id" json:"-"`
	ConversationID string    `db:"conversation_id" json:"-"`
	Message        string    `db:"message" json:"message"`
	IsUser         bool      `db:"is_user" json:"is_user"`
	CreatedAt      time.Time `db:"created_at" json:"timestamp"`
}

// ConversationSummary is a row of the history listing.
type ConversationSummary struct {
	ID              string    `json:"id"`
	Preview         string    `json:"preview"`
	MatchingMessage string    `json:"matching_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LastMessage     time.Time `json:"last_message"`
}

// Pagination describes a page of a listing.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count for total items.
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = total / limit
		if total%limit != 0 {
			pages++
		}
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

// ConversationPage is a page of conversation summaries.
type ConversationPage struct {
	Conversations []ConversationSummary `json:"conversations"`
	Pagination    Pagination            `json:"pagination"`
}
