package repository

import (
	"context"
	"strconv"

	"github.com/hitoshi/studymate/internal/model"
)

// MemorySessionRepo はMemoryStoreを使用した学習セッションリポジトリ。
type MemorySessionRepo struct {
	store *MemoryStore
}

// List は登録順に全セッションのコピーを返す。
func (r *MemorySessionRepo) List(ctx context.Context) ([]*model.StudySession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sessions := make([]*model.StudySession, len(r.store.sessions))
	for i, s := range r.store.sessions {
		sessions[i] = copySession(s)
	}
	return sessions, nil
}

// Create は「現在のセッション数+1」をIDとして採番し、セッションを追加する。
func (r *MemorySessionRepo) Create(ctx context.Context, session *model.StudySession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session.ID = strconv.Itoa(len(r.store.sessions) + 1)
	r.store.sessions = append(r.store.sessions, copySession(session))
	return nil
}

// End はセッションを終了状態に更新する。見つからない場合はnilを返す。
func (r *MemorySessionRepo) End(ctx context.Context, id string, end model.SessionEnd) (*model.StudySession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, s := range r.store.sessions {
		if s.ID != id {
			continue
		}
		endTime := end.EndTime
		s.EndTime = &endTime
		s.IsActive = false
		s.ActualDuration = end.Duration
		s.Notes = end.Notes
		s.Effectiveness = end.Effectiveness
		s.Status = model.SessionStatusCompleted
		return copySession(s), nil
	}
	return nil, nil
}

// Count はセッション数を返す。
func (r *MemorySessionRepo) Count(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.sessions), nil
}

func copySession(s *model.StudySession) *model.StudySession {
	c := *s
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	return &c
}

// compile-time interface check
var _ StudySessionRepository = (*MemorySessionRepo)(nil)
