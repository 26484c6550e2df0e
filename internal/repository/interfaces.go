// Package repository はデータ保持のインターフェースとインメモリ実装を定義する。
package repository

import (
	"context"

	"github.com/hitoshi/studymate/internal/model"
)

// UserRepository はユーザーデータの保持インターフェース。
type UserRepository interface {
	// FindByKey は指定Keyのユーザーを取得する。見つからない場合はnilを返す。
	FindByKey(ctx context.Context, key string) (*model.User, error)

	// Create はユーザーを作成する。同じKeyが存在する場合は置き換える。
	// IDが空の場合は「現在のユーザー数+1」を採番する。
	Create(ctx context.Context, user *model.User) error

	// Update は既存ユーザーを上書き更新する。
	Update(ctx context.Context, user *model.User) error
}

// TokenRepository は発行済みトークンとユーザーKeyの対応を保持するインターフェース。
// 1ユーザーに対して複数の有効トークンを許容する。
type TokenRepository interface {
	// Create はトークンを登録する。
	Create(ctx context.Context, token, userKey string) error

	// FindUserKey はトークンに紐づくユーザーKeyを返す。未登録の場合は空文字列を返す。
	FindUserKey(ctx context.Context, token string) (string, error)

	// Delete はトークンを削除する。未登録でもエラーにしない。
	Delete(ctx context.Context, token string) error
}

// GoalRepository は学習目標の保持インターフェース。
type GoalRepository interface {
	// List は登録順に全目標を返す。
	List(ctx context.Context) ([]model.Goal, error)

	// FindByID は指定IDの目標を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (model.Goal, error)

	// Create は「現在の目標数+1」をIDとして採番し、目標を追加する。
	// 削除後の採番でIDが重複する可能性は許容する。
	Create(ctx context.Context, goal model.Goal) (model.Goal, error)

	// Update は指定フィールドを検証なしでマージする。見つからない場合はnilを返す。
	Update(ctx context.Context, id string, fields map[string]any) (model.Goal, error)

	// Delete は指定IDの目標を削除する。存在しない場合も成功とする。
	Delete(ctx context.Context, id string) error
}

// StudySessionRepository は学習セッションの保持インターフェース。
type StudySessionRepository interface {
	// List は登録順に全セッションを返す。
	List(ctx context.Context) ([]*model.StudySession, error)

	// Create は「現在のセッション数+1」をIDとして採番し、セッションを追加する。
	Create(ctx context.Context, session *model.StudySession) error

	// End はセッションを終了状態に更新する。見つからない場合はnilを返す。
	End(ctx context.Context, id string, end model.SessionEnd) (*model.StudySession, error)

	// Count はセッション数を返す。
	Count(ctx context.Context) (int, error)
}

// ChatRepository はAIチャット履歴の保持インターフェース。追記のみ。
type ChatRepository interface {
	// Append は履歴の末尾にメッセージを追加する。
	Append(ctx context.Context, msg *model.ChatMessage) error

	// List は追加順に全履歴を返す。
	List(ctx context.Context) ([]*model.ChatMessage, error)
}
