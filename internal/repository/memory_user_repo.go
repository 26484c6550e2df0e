package repository

import (
	"context"
	"strconv"

	"github.com/hitoshi/studymate/internal/model"
)

// MemoryUserRepo はMemoryStoreを使用したユーザーリポジトリ。
type MemoryUserRepo struct {
	store *MemoryStore
}

// FindByKey は指定Keyのユーザーのコピーを返す。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByKey(ctx context.Context, key string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[key]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

// Create はユーザーを作成する。IDが空の場合は「現在のユーザー数+1」を採番する。
func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.ID == "" {
		user.ID = strconv.Itoa(len(r.store.users) + 1)
	}
	r.store.users[user.Key] = copyUser(user)
	return nil
}

// Update は既存ユーザーを上書き更新する。
func (r *MemoryUserRepo) Update(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.users[user.Key] = copyUser(user)
	return nil
}

func copyUser(u *model.User) *model.User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

// compile-time interface check
var _ UserRepository = (*MemoryUserRepo)(nil)
