package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/apierr"
	"github.com/markdave123-py/SpiderCare/internal/core"
	"github.com/markdave123-py/SpiderCare/internal/core/persona"
	"github.com/markdave123-py/SpiderCare/internal/metrics"
	"github.com/markdave123-py/SpiderCare/internal/models"
	"github.com/markdave123-py/SpiderCare/internal/security"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	maxPage      = 1_000_000
)

type ChatInput struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

type ChatReply struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

// Conversation is a full message thread.
type Conversation struct {
	ConversationID string               `json:"conversation_id"`
	Messages       []models.ChatMessage `json:"messages"`
}

type ChatService struct {
	db      core.DbClient
	llm     core.LLMProvider
	persona persona.Persona
	now     func() time.Time
}

func NewChatService(db core.DbClient, llm core.LLMProvider, p persona.Persona) *ChatService {
	return &ChatService{db: db, llm: llm, persona: p, now: time.Now}
}

func (s *ChatService) Greeting() string {
	return s.persona.Greetings.Random()
}

// Send answers one message. For an authenticated user with history enabled
// both the user line and the reply are stored; the setting is read once so
// the pair is kept or dropped together. userID is "" for anonymous chat.
func (s *ChatService) Send(ctx context.Context, userID string, in ChatInput) (*ChatReply, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, apierr.BadRequest("Message cannot be empty")
	}
	convID := in.ConversationID
	if convID == "" {
		convID = uuid.NewString()
	}

	const failMsg = "An error occurred while processing your message"

	save := false
	if userID != "" {
		settings, err := s.db.GetUserSettings(ctx, userID)
		switch {
		case err == nil:
			save = settings.MessageHistoryEnabled
		case !errors.Is(err, core.ErrNotFound):
			return nil, apierr.Internal(failMsg, err)
		}
	}

	msg := security.SanitizeString(in.Message)

	if save {
		if err := s.save(ctx, userID, convID, msg, true); err != nil {
			return nil, apierr.Internal(failMsg, err)
		}
	}

	reply, err := s.llm.Generate(ctx, s.persona.SystemPrompt, msg)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", convID).Msg("completion failed")
		reply = s.persona.Fallback
		metrics.CompletionsTotal.WithLabelValues("fallback").Inc()
	} else {
		metrics.CompletionsTotal.WithLabelValues("ok").Inc()
	}

	if save {
		if err := s.save(ctx, userID, convID, reply, false); err != nil {
			return nil, apierr.Internal(failMsg, err)
		}
	}

	return &ChatReply{Message: reply, ConversationID: convID}, nil
}

func (s *ChatService) save(ctx context.Context, userID, convID, text string, isUser bool) error {
	uid := userID
	return s.db.SaveChatMessage(ctx, &models.ChatMessage{
		UserID:         &uid,
		ConversationID: convID,
		Message:        text,
		IsUser:         isUser,
		CreatedAt:      s.now(),
	})
}

func (s *ChatService) Conversation(ctx context.Context, userID, convID string) (*Conversation, error) {
	msgs, err := s.db.GetConversationMessages(ctx, userID, convID)
	if err != nil {
		return nil, apierr.Internal("An error occurred while fetching chat history", err)
	}
	if len(msgs) == 0 {
		return nil, apierr.NotFound("Conversation not found")
	}
	return &Conversation{ConversationID: convID, Messages: msgs}, nil
}

func (s *ChatService) List(ctx context.Context, userID string, page, limit int) (*models.ConversationPage, error) {
	page, limit = normalizePage(page, limit)
	res, err := s.db.ListConversations(ctx, userID, page, limit)
	if err != nil {
		return nil, apierr.Internal("An error occurred while fetching conversations", err)
	}
	return res, nil
}

func (s *ChatService) Search(ctx context.Context, userID, query string, page, limit int) (*models.ConversationPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierr.BadRequest("Search query cannot be empty")
	}
	page, limit = normalizePage(page, limit)
	res, err := s.db.SearchConversations(ctx, userID, query, page, limit)
	if err != nil {
		return nil, apierr.Internal("An error occurred while searching conversations", err)
	}
	return res, nil
}

func (s *ChatService) Delete(ctx context.Context, userID, convID string) error {
	if err := s.db.DeleteConversation(ctx, userID, convID); err != nil {
		return apierr.Internal("An error occurred while deleting conversation", err)
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
