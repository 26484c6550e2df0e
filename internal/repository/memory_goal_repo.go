package repository

import (
	"context"
	"strconv"

	"github.com/hitoshi/studymate/internal/model"
)

// MemoryGoalRepo はMemoryStoreを使用した学習目標リポジトリ。
type MemoryGoalRepo struct {
	store *MemoryStore
}

// List は登録順に全目標のコピーを返す。
func (r *MemoryGoalRepo) List(ctx context.Context) ([]model.Goal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	goals := make([]model.Goal, len(r.store.goals))
	for i, g := range r.store.goals {
		goals[i] = g.Clone()
	}
	return goals, nil
}

// FindByID は指定IDの目標を取得する。見つからない場合はnilを返す。
func (r *MemoryGoalRepo) FindByID(ctx context.Context, id string) (model.Goal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if g := r.find(id); g != nil {
		return g.Clone(), nil
	}
	return nil, nil
}

// Create は「現在の目標数+1」をIDとして採番し、目標を追加する。
func (r *MemoryGoalRepo) Create(ctx context.Context, goal model.Goal) (model.Goal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	g := goal.Clone()
	g[model.GoalFieldID] = strconv.Itoa(len(r.store.goals) + 1)
	r.store.goals = append(r.store.goals, g)
	return g.Clone(), nil
}

// Update は指定フィールドを検証なしでマージする。見つからない場合はnilを返す。
func (r *MemoryGoalRepo) Update(ctx context.Context, id string, fields map[string]any) (model.Goal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	g := r.find(id)
	if g == nil {
		return nil, nil
	}
	g.Merge(fields)
	return g.Clone(), nil
}

// Delete は指定IDの目標を全て削除する。存在しない場合も成功とする。
func (r *MemoryGoalRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.goals[:0]
	for _, g := range r.store.goals {
		if g.ID() != id {
			kept = append(kept, g)
		}
	}
	r.store.goals = kept
	return nil
}

// find は先頭から最初に一致した目標を返す。呼び出し側でロックを保持すること。
func (r *MemoryGoalRepo) find(id string) model.Goal {
	for _, g := range r.store.goals {
		if g.ID() == id {
			return g
		}
	}
	return nil
}

// compile-time interface check
var _ GoalRepository = (*MemoryGoalRepo)(nil)
