package db

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/markdave123-py/SpiderCare/internal/core"
	"github.com/markdave123-py/SpiderCare/internal/models"
)

// MemoryClient is a process-local DbClient used in development when no
// DATABASE_URL is configured, and by handler tests.
type MemoryClient struct {
	mu       sync.RWMutex
	users    map[string]models.User
	sessions map[string]models.Session // by token
	settings map[string]models.UserSettings
	messages []models.ChatMessage
	seq      int64
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		users:    make(map[string]models.User),
		sessions: make(map[string]models.Session),
		settings: make(map[string]models.UserSettings),
	}
}

func (m *MemoryClient) Ping(context.Context) error { return nil }
func (m *MemoryClient) Close() error               { return nil }

func (m *MemoryClient) CreateUser(_ context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return core.ErrEmailTaken
		}
	}
	m.users[user.ID] = *user
	m.settings[user.ID] = models.DefaultSettings(user.ID)
	return nil
}

func (m *MemoryClient) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *MemoryClient) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}

func (m *MemoryClient) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	m.users[userID] = u
	return nil
}

func (m *MemoryClient) DeleteUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, tok)
		}
	}
	m.messages = filterMessages(m.messages, func(msg models.ChatMessage) bool {
		return !ownedBy(msg, userID)
	})
	delete(m.settings, userID)
	delete(m.users, userID)
	return nil
}

func (m *MemoryClient) CreateSession(_ context.Context, s *models.Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[s.UserID]; !ok {
		return errors.New("insert session: unknown user")
	}
	m.sessions[s.Token] = *s
	return nil
}

func (m *MemoryClient) GetSessionByToken(_ context.Context, token string, now time.Time) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok || !s.Valid(now) {
		return nil, core.ErrNotFound
	}
	return &s, nil
}

func (m *MemoryClient) InvalidateSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MemoryClient) InvalidateUserSessions(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, tok)
		}
	}
	return nil
}

func (m *MemoryClient) CleanupExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for tok, s := range m.sessions {
		if !s.Valid(now) {
			delete(m.sessions, tok)
			n++
		}
	}
	return n, nil
}

func (m *MemoryClient) GetUserSettings(_ context.Context, userID string) (*models.UserSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &s, nil
}

func (m *MemoryClient) UpdateUserSettings(_ context.Context, s *models.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.settings[s.UserID]; !ok {
		return core.ErrNotFound
	}
	m.settings[s.UserID] = *s
	return nil
}

func (m *MemoryClient) SaveChatMessage(_ context.Context, msg *models.ChatMessage) error {
	if msg == nil {
		return errors.New("nil message")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	msg.ID = strconv.FormatInt(m.seq, 10)
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *MemoryClient) GetConversationMessages(_ context.Context, userID, conversationID string) ([]models.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterMessages(m.messages, func(msg models.ChatMessage) bool {
		return ownedBy(msg, userID) && msg.ConversationID == conversationID
	}), nil
}

func (m *MemoryClient) ListConversations(_ context.Context, userID string, page, limit int) (*models.ConversationPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	convs := m.summaries(userID, "")
	return paginate(convs, page, limit), nil
}

func (m *MemoryClient) SearchConversations(_ context.Context, userID, query string, page, limit int) (*models.ConversationPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	convs := m.summaries(userID, strings.ToLower(query))
	return paginate(convs, page, limit), nil
}

func (m *MemoryClient) DeleteConversation(_ context.Context, userID, conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = filterMessages(m.messages, func(msg models.ChatMessage) bool {
		return !(ownedBy(msg, userID) && msg.ConversationID == conversationID)
	})
	return nil
}

// summaries groups the user's messages by conversation, newest activity
// first. A non-empty query keeps only conversations with a matching line.
// Messages are appended in send order so the first seen line is the preview.
func (m *MemoryClient) summaries(userID, query string) []models.ConversationSummary {
	index := map[string]int{}
	var out []models.ConversationSummary
	for _, msg := range m.messages {
		if !ownedBy(msg, userID) {
			continue
		}
		i, ok := index[msg.ConversationID]
		if !ok {
			i = len(out)
			index[msg.ConversationID] = i
			out = append(out, models.ConversationSummary{
				ID:          msg.ConversationID,
				Preview:     msg.Message,
				CreatedAt:   msg.CreatedAt,
				LastMessage: msg.CreatedAt,
			})
		}
		s := &out[i]
		if msg.CreatedAt.After(s.LastMessage) {
			s.LastMessage = msg.CreatedAt
		}
		if query != "" && s.MatchingMessage == "" && strings.Contains(strings.ToLower(msg.Message), query) {
			s.MatchingMessage = msg.Message
		}
	}
	if query != "" {
		kept := out[:0]
		for _, s := range out {
			if s.MatchingMessage != "" {
				kept = append(kept, s)
			}
		}
		out = kept
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastMessage.After(out[j].LastMessage) })
	return out
}

func paginate(convs []models.ConversationSummary, page, limit int) *models.ConversationPage {
	total := len(convs)
	start := offset(page, limit)
	if start > total {
		start = total
	}
	end := total
	if limit > 0 && limit < total-start {
		end = start + limit
	}
	pageItems := append([]models.ConversationSummary{}, convs[start:end]...)
	return &models.ConversationPage{Conversations: pageItems, Pagination: models.NewPagination(total, page, limit)}
}

func ownedBy(msg models.ChatMessage, userID string) bool {
	return msg.UserID != nil && *msg.UserID == userID
}

func filterMessages(in []models.ChatMessage, keep func(models.ChatMessage) bool) []models.ChatMessage {
	var out []models.ChatMessage
	for _, msg := range in {
		if keep(msg) {
			out = append(out, msg)
		}
	}
	return out
}

var _ core.DbClient = (*MemoryClient)(nil)
