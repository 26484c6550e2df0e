// Package auth はソーシャルログイン、ローカルログイン、トークン管理を提供する。
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	Provider       string // "kakao", "google"
}

// UserInfoProvider はアクセストークンからユーザー情報を解決するプロバイダーのインターフェース。
// 呼び出しは1ログインにつき1回のみで、リトライは行わない。
type UserInfoProvider interface {
	FetchUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error)
}

const defaultOAuthTimeout = 5 * time.Second

// newHTTPClient はタイムアウト付きのHTTPクライアントを生成する。
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultOAuthTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getUserInfoJSON はBearerトークン付きでユーザー情報エンドポイントを呼び出し、JSONをvにデコードする。
func getUserInfoJSON(ctx context.Context, client *http.Client, endpoint, accessToken string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("user info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("user info fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse user info response: %w", err)
	}
	return nil
}
