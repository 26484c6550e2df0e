// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーKeyを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// TokenResolver はトークンからユーザーKeyを解決するインターフェース。
// 未登録トークンの場合は空文字列を返す。
type TokenResolver interface {
	ResolveUserKey(ctx context.Context, token string) (string, error)
}

// TokenFromRequest はAuthorizationヘッダーからトークンを取り出す。
// "Token <t>" と "Bearer <t>" の両方を受け付ける。該当しなければ空文字列を返す。
func TokenFromRequest(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	for _, scheme := range []string{"Token ", "Bearer "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}

// NewTokenMiddleware はAuthorizationヘッダーのトークンを解決し、
// 既知のトークンであればユーザーKeyをリクエストコンテキストに注入するミドルウェアを返す。
// 未認証のリクエストも拒否せずに通す。認証必須の判定は各ハンドラーが行う。
func NewTokenMiddleware(resolver TokenResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userKey, err := resolver.ResolveUserKey(r.Context(), token)
			if err != nil {
				slog.Error("failed to resolve token",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if userKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userKey)))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーKeyを取得する。
// トークンミドルウェアで解決できたリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーKeyを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
