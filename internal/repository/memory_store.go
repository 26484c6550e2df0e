package repository

import (
	"sync"

	"github.com/hitoshi/studymate/internal/model"
)

// MemoryStore はサーバーインスタンスが所有するインメモリストア。
// プロセス再起動で全データが失われる。
// net/httpは接続ごとにgoroutineで処理するため、全コレクションを1つのミューテックスで直列化する。
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	tokens   map[string]string
	goals    []model.Goal
	sessions []*model.StudySession
	chat     []*model.ChatMessage
}

// NewMemoryStore は空のMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]*model.User),
		tokens: make(map[string]string),
	}
}

// Users はユーザーリポジトリを返す。
func (s *MemoryStore) Users() UserRepository {
	return &MemoryUserRepo{store: s}
}

// Tokens はトークンリポジトリを返す。
func (s *MemoryStore) Tokens() TokenRepository {
	return &MemoryTokenRepo{store: s}
}

// Goals は学習目標リポジトリを返す。
func (s *MemoryStore) Goals() GoalRepository {
	return &MemoryGoalRepo{store: s}
}

// Sessions は学習セッションリポジトリを返す。
func (s *MemoryStore) Sessions() StudySessionRepository {
	return &MemorySessionRepo{store: s}
}

// Chat はAIチャット履歴リポジトリを返す。
func (s *MemoryStore) Chat() ChatRepository {
	return &MemoryChatRepo{store: s}
}

// Counts は各コレクションの件数を返す。/health の応答に含める。
func (s *MemoryStore) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"users":    len(s.users),
		"tokens":   len(s.tokens),
		"goals":    len(s.goals),
		"sessions": len(s.sessions),
		"chat":     len(s.chat),
	}
}
