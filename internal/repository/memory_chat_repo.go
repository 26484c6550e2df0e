package repository

import (
	"context"

	"github.com/hitoshi/studymate/internal/model"
)

// MemoryChatRepo はMemoryStoreを使用したAIチャット履歴リポジトリ。
type MemoryChatRepo struct {
	store *MemoryStore
}

// Append は履歴の末尾にメッセージを追加する。
func (r *MemoryChatRepo) Append(ctx context.Context, msg *model.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *msg
	r.store.chat = append(r.store.chat, &c)
	return nil
}

// List は追加順に全履歴のコピーを返す。
func (r *MemoryChatRepo) List(ctx context.Context) ([]*model.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	msgs := make([]*model.ChatMessage, len(r.store.chat))
	for i, m := range r.store.chat {
		c := *m
		msgs[i] = &c
	}
	return msgs, nil
}

// compile-time interface check
var _ ChatRepository = (*MemoryChatRepo)(nil)
