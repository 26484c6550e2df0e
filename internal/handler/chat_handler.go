package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/studymate/internal/aichat"
	"github.com/hitoshi/studymate/internal/middleware"
	"github.com/hitoshi/studymate/internal/model"
)

// ChatServiceInterface はAIチャットハンドラーが必要とするサービスインターフェース。
type ChatServiceInterface interface {
	Chat(ctx context.Context, userID, message string) (*model.ChatMessage, error)
	History(ctx context.Context) ([]*model.ChatMessage, error)
}

// ChatHandler はAIチャットのHTTPハンドラー。
type ChatHandler struct {
	service ChatServiceInterface
}

// NewChatHandler はChatHandlerを生成する。
func NewChatHandler(service ChatServiceInterface) *ChatHandler {
	return &ChatHandler{service: service}
}

type chatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type chatMessageResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Type        string   `json:"type"`
	Query       string   `json:"query"`
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
	Confidence  float64  `json:"confidence"`
	CreatedAt   string   `json:"created_at"`
}

type chatHistoryResponse struct {
	History []chatMessageResponse `json:"history"`
	Count   int                   `json:"count"`
}

// Chat はメッセージに定型応答を返し、履歴に追加する。
// トークンが無い場合のuser_idは "1"。
// POST /api/study/ai/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[chatRequest](w, r)
	if !ok {
		return
	}

	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		userID = aichat.AnonymousUserID
	}

	msg, err := h.service.Chat(r.Context(), userID, req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toChatMessageResponse(msg))
}

// History はチャット履歴を追加順に返す。
// GET /api/study/ai/history
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.History(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	history := make([]chatMessageResponse, len(msgs))
	for i, m := range msgs {
		history[i] = toChatMessageResponse(m)
	}
	writeJSON(w, http.StatusOK, chatHistoryResponse{History: history, Count: len(history)})
}

func toChatMessageResponse(m *model.ChatMessage) chatMessageResponse {
	return chatMessageResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        m.Type,
		Query:       m.Query,
		Response:    m.Response,
		Suggestions: m.Suggestions,
		Confidence:  m.Confidence,
		CreatedAt:   formatTime(m.CreatedAt),
	}
}
