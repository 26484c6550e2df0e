// Package aichat はAI学習アシスタントのスタブ応答を提供する。
// 言語モデルは呼び出さず、質問文を埋め込んだ定型文を返す。
package aichat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/studymate/internal/metrics"
	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/repository"
	"github.com/hitoshi/studymate/internal/security"
)

const (
	// AnonymousUserID はトークン無しで質問された場合のユーザーID。
	AnonymousUserID = "1"

	messageTypeExplanation = "explanation"
	defaultConfidence      = 0.85
	responseTemplate       = "테스트 AI 응답: %s에 대한 답변입니다.\n\n다음과 같은 내용을 학습하시면 좋습니다:\n1. 기초 개념 이해\n2. 실습 예제 풀기\n3. 프로젝트 적용하기"
)

var defaultSuggestions = []string{"추가 학습 자료", "연습 문제", "관련 주제"}

// Service はAIチャットのサービス層。
type Service struct {
	repo      repository.ChatRepository
	sanitizer security.TextSanitizer
	metrics   metrics.MetricsCollector
	now       func() time.Time
	newID     func() string
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ChatRepository, sanitizer security.TextSanitizer, mc metrics.MetricsCollector) *Service {
	if mc == nil {
		mc = metrics.Nop()
	}
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   mc,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Chat は質問に対する定型応答を生成し、履歴に追記する。
// userIDが空の場合は AnonymousUserID を記録する。
func (s *Service) Chat(ctx context.Context, userID, message string) (*model.ChatMessage, error) {
	if userID == "" {
		userID = AnonymousUserID
	}
	query := s.sanitizer.Sanitize(message)

	suggestions := make([]string, len(defaultSuggestions))
	copy(suggestions, defaultSuggestions)

	msg := &model.ChatMessage{
		ID:          s.newID(),
		UserID:      userID,
		Type:        messageTypeExplanation,
		Query:       query,
		Response:    fmt.Sprintf(responseTemplate, query),
		Suggestions: suggestions,
		Confidence:  defaultConfidence,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to append chat history: %w", err)
	}

	s.metrics.RecordChatMessage()
	return msg, nil
}

// History は追加順に全履歴を返す。
func (s *Service) History(ctx context.Context) ([]*model.ChatMessage, error) {
	history, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat history: %w", err)
	}
	return history, nil
}
