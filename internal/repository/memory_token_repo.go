package repository

import "context"

// MemoryTokenRepo はMemoryStoreを使用したトークンリポジトリ。
type MemoryTokenRepo struct {
	store *MemoryStore
}

// Create はトークンを登録する。
func (r *MemoryTokenRepo) Create(ctx context.Context, token, userKey string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.tokens[token] = userKey
	return nil
}

// FindUserKey はトークンに紐づくユーザーKeyを返す。未登録の場合は空文字列を返す。
// トークンの有効期限はここでは確認しない。
func (r *MemoryTokenRepo) FindUserKey(ctx context.Context, token string) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.tokens[token], nil
}

// Delete はトークンを削除する。
func (r *MemoryTokenRepo) Delete(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.tokens, token)
	return nil
}

// compile-time interface check
var _ TokenRepository = (*MemoryTokenRepo)(nil)
