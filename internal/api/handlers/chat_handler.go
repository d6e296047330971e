package handlers

import (
	"net/http"

	"github.com/markdave123-py/SpiderCare/internal/api/router"
	"github.com/markdave123-py/SpiderCare/internal/requestdata"
	"github.com/markdave123-py/SpiderCare/internal/services"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Greeting(_ *http.Request, _ []string) (*router.Response, error) {
	return router.Success(map[string]any{"message": h.chat.Greeting()}), nil
}

// Chat works for anonymous callers too; history is kept only for
// authenticated users who have it enabled.
func (h *ChatHandler) Chat(r *http.Request, _ []string) (*router.Response, error) {
	var req services.ChatInput
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	reply, err := h.chat.Send(r.Context(), requestdata.UserID(r.Context()), req)
	if err != nil {
		return nil, err
	}
	return router.Success(map[string]any{
		"message":         reply.Message,
		"conversation_id": reply.ConversationID,
	}), nil
}

func (h *ChatHandler) ListHistory(r *http.Request, _ []string) (*router.Response, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	page, err := h.chat.List(r.Context(), uid, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		return nil, err
	}
	return router.Success(map[string]any{
		"conversations": page.Conversations,
		"pagination":    page.Pagination,
	}), nil
}

func (h *ChatHandler) SearchHistory(r *http.Request, _ []string) (*router.Response, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	page, err := h.chat.Search(r.Context(), uid, r.URL.Query().Get("q"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		return nil, err
	}
	return router.Success(map[string]any{
		"conversations": page.Conversations,
		"pagination":    page.Pagination,
	}), nil
}

func (h *ChatHandler) GetConversation(r *http.Request, params []string) (*router.Response, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	conv, err := h.chat.Conversation(r.Context(), uid, param(params))
	if err != nil {
		return nil, err
	}
	return router.Success(map[string]any{
		"conversation_id": conv.ConversationID,
		"messages":        conv.Messages,
	}), nil
}

func (h *ChatHandler) DeleteConversation(r *http.Request, params []string) (*router.Response, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	if err := h.chat.Delete(r.Context(), uid, param(params)); err != nil {
		return nil, err
	}
	return router.Message("Conversation deleted successfully"), nil
}
