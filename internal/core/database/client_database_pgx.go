package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/SpiderCare/internal/config"
	"github.com/markdave123-py/SpiderCare/internal/core"
	"github.com/markdave123-py/SpiderCare/internal/models"
)

const uniqueViolation = "23505"

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already opened handle.
func NewWithDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Users

// CreateUser inserts the user and its default settings in one transaction.
func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	const insertUser = `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insertUser,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt); err != nil {
		_ = tx.Rollback()
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return core.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	s := models.DefaultSettings(user.ID)
	const insertSettings = `
		INSERT INTO user_settings (user_id, display_name, theme, message_history_enabled, notification_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insertSettings,
		s.UserID, s.DisplayName, s.Theme, s.MessageHistoryEnabled, s.NotificationEnabled); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user: %w", err)
	}
	return nil
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE email = $1
	`
	return c.scanUser(c.db.QueryRowContext(ctx, q, email))
}

func (c *DatabaseClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const q = `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = $1
	`
	return c.scanUser(c.db.QueryRowContext(ctx, q, id))
}

func (c *DatabaseClient) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (c *DatabaseClient) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2 WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return expectRows(res)
}

// DeleteUser removes sessions, history, settings and the user row. Any
// failing step rolls the whole unit back.
func (c *DatabaseClient) DeleteUser(ctx context.Context, userID string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	steps := []struct {
		name string
		q    string
	}{
		{"sessions", `DELETE FROM sessions WHERE user_id = $1`},
		{"chat history", `DELETE FROM chat_history WHERE user_id = $1`},
		{"settings", `DELETE FROM user_settings WHERE user_id = $1`},
		{"user", `DELETE FROM users WHERE id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.q, userID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete %s: %w", step.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user: %w", err)
	}
	return nil
}

// Sessions

func (c *DatabaseClient) CreateSession(ctx context.Context, s *models.Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	const q = `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := c.db.ExecContext(ctx, q, s.ID, s.UserID, s.Token, s.ExpiresAt, s.CreatedAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (c *DatabaseClient) GetSessionByToken(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	const q = `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions
		WHERE token = $1 AND expires_at > $2
	`
	var s models.Session
	err := c.db.QueryRowContext(ctx, q, token, now).Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}

func (c *DatabaseClient) InvalidateSession(ctx context.Context, token string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (c *DatabaseClient) InvalidateUserSessions(ctx context.Context, userID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

func (c *DatabaseClient) CleanupExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Settings

func (c *DatabaseClient) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	const q = `
		SELECT user_id, display_name, theme, message_history_enabled, notification_enabled
		FROM user_settings WHERE user_id = $1
	`
	var s models.UserSettings
	var display sql.NullString
	err := c.db.QueryRowContext(ctx, q, userID).Scan(
		&s.UserID, &display, &s.Theme, &s.MessageHistoryEnabled, &s.NotificationEnabled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if display.Valid {
		s.DisplayName = &display.String
	}
	return &s, nil
}

func (c *DatabaseClient) UpdateUserSettings(ctx context.Context, s *models.UserSettings) error {
	const q = `
		UPDATE user_settings
		SET display_name = $2, theme = $3, message_history_enabled = $4, notification_enabled = $5
		WHERE user_id = $1
	`
	res, err := c.db.ExecContext(ctx, q, s.UserID, s.DisplayName, s.Theme, s.MessageHistoryEnabled, s.NotificationEnabled)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return expectRows(res)
}

// Chat history

func (c *DatabaseClient) SaveChatMessage(ctx context.Context, m *models.ChatMessage) error {
	if m == nil {
		return errors.New("nil message")
	}
	const q = `
		INSERT INTO chat_history (user_id, conversation_id, message, is_user, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := c.db.QueryRowContext(ctx, q, m.UserID, m.ConversationID, m.Message, m.IsUser, m.CreatedAt).Scan(&m.ID); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (c *DatabaseClient) GetConversationMessages(ctx context.Context, userID, conversationID string) ([]models.ChatMessage, error) {
	const q = `
		SELECT id, user_id, conversation_id, message, is_user, created_at
		FROM chat_history
		WHERE user_id = $1 AND conversation_id = $2
		ORDER BY created_at ASC, id ASC
	`
	rows, err := c.db.QueryContext(ctx, q, userID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.ConversationID, &m.Message, &m.IsUser, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) ListConversations(ctx context.Context, userID string, page, limit int) (*models.ConversationPage, error) {
	const q = `
		SELECT c.conversation_id, f.message, f.created_at, c.last_message
		FROM (
			SELECT conversation_id, MAX(created_at) AS last_message
			FROM chat_history
			WHERE user_id = $1
			GROUP BY conversation_id
			ORDER BY last_message DESC
			LIMIT $2 OFFSET $3
		) c
		JOIN LATERAL (
			SELECT message, created_at
			FROM chat_history h
			WHERE h.user_id = $1 AND h.conversation_id = c.conversation_id
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		) f ON TRUE
		ORDER BY c.last_message DESC
	`
	rows, err := c.db.QueryContext(ctx, q, userID, limit, offset(page, limit))
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	convs := []models.ConversationSummary{}
	for rows.Next() {
		var s models.ConversationSummary
		if err := rows.Scan(&s.ID, &s.Preview, &s.CreatedAt, &s.LastMessage); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var total int
	const countQ = `SELECT COUNT(DISTINCT conversation_id) FROM chat_history WHERE user_id = $1`
	if err := c.db.QueryRowContext(ctx, countQ, userID).Scan(&total); err != nil {
		return nil, fmt.Errorf("count conversations: %w", err)
	}

	return &models.ConversationPage{Conversations: convs, Pagination: models.NewPagination(total, page, limit)}, nil
}

func (c *DatabaseClient) SearchConversations(ctx context.Context, userID, query string, page, limit int) (*models.ConversationPage, error) {
	term := "%" + escapeLike(query) + "%"
	const q = `
		SELECT c.conversation_id, f.message, f.created_at, c.last_message, m.message
		FROM (
			SELECT conversation_id, MAX(created_at) AS last_message
			FROM chat_history
			WHERE user_id = $1
			GROUP BY conversation_id
			HAVING bool_or(message ILIKE $2)
			ORDER BY last_message DESC
			LIMIT $3 OFFSET $4
		) c
		JOIN LATERAL (
			SELECT message, created_at
			FROM chat_history h
			WHERE h.user_id = $1 AND h.conversation_id = c.conversation_id
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		) f ON TRUE
		JOIN LATERAL (
			SELECT message
			FROM chat_history h
			WHERE h.user_id = $1 AND h.conversation_id = c.conversation_id AND h.message ILIKE $2
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		) m ON TRUE
		ORDER BY c.last_message DESC
	`
	rows, err := c.db.QueryContext(ctx, q, userID, term, limit, offset(page, limit))
	if err != nil {
		return nil, fmt.Errorf("search conversations: %w", err)
	}
	defer rows.Close()

	convs := []models.ConversationSummary{}
	for rows.Next() {
		var s models.ConversationSummary
		if err := rows.Scan(&s.ID, &s.Preview, &s.CreatedAt, &s.LastMessage, &s.MatchingMessage); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var total int
	const countQ = `SELECT COUNT(DISTINCT conversation_id) FROM chat_history WHERE user_id = $1 AND message ILIKE $2`
	if err := c.db.QueryRowContext(ctx, countQ, userID, term).Scan(&total); err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	return &models.ConversationPage{Conversations: convs, Pagination: models.NewPagination(total, page, limit)}, nil
}

func (c *DatabaseClient) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	const q = `DELETE FROM chat_history WHERE user_id = $1 AND conversation_id = $2`
	if _, err := c.db.ExecContext(ctx, q, userID, conversationID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// offset saturates at math.MaxInt instead of wrapping.
func offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ core.DbClient = (*DatabaseClient)(nil)
