// Package seeder はHTTP経由でテスト用のアカウント・学習目標・学習セッションを投入する。
package seeder

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxErrorBodySize はエラー時にログへ残すレスポンスボディの最大長。
const maxErrorBodySize = 512

// Client はStudyMate APIのクライアント。
// 2xx以外のレスポンスはすべて失敗として扱う。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// NewHTTPClient はタイムアウト付きのhttp.Clientを生成する。
// insecureTLSがtrueの場合は自己署名証明書の開発サーバー向けに証明書検証を無効にする。
func NewHTTPClient(timeout time.Duration, insecureTLS bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// StatusError は2xx以外のレスポンスを表す。
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// Error はerrorインターフェースを実装する。
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

type registerRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Name            string `json:"name"`
	ProfileName     string `json:"profile_name"`
	TermsAccepted   bool   `json:"terms_accepted"`
	PrivacyAccepted bool   `json:"privacy_accepted"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
	Subject     string `json:"subject"`
	Difficulty  string `json:"difficulty"`
	IsActive    bool   `json:"is_active"`
	Progress    int    `json:"progress"`
}

type goalResponse struct {
	ID any `json:"id"`
}

type createSessionRequest struct {
	Goal        any    `json:"goal"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Duration    int    `json:"duration"`
	Notes       string `json:"notes"`
	IsCompleted bool   `json:"is_completed"`
}

// Register はアカウントを登録し、発行されたトークンを返す。
func (c *Client) Register(ctx context.Context, acc Account, username string) (string, error) {
	var resp tokenResponse
	err := c.postJSON(ctx, "/api/auth/register/", "", registerRequest{
		Email:           acc.Email,
		Username:        username,
		Password:        acc.Password,
		PasswordConfirm: acc.Password,
		Name:            acc.Name,
		ProfileName:     acc.Name,
		TermsAccepted:   true,
		PrivacyAccepted: true,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("登録レスポンスにトークンがありません: %s", acc.Email)
	}
	return resp.Token, nil
}

// Login はメールアドレスとパスワードでログインし、トークンを返す。
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	if err := c.postJSON(ctx, "/api/auth/login/", "", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("ログインレスポンスにトークンがありません: %s", email)
	}
	return resp.Token, nil
}

// CreateGoal は学習目標を作成し、サーバーが採番したIDを返す。
func (c *Client) CreateGoal(ctx context.Context, token string, goal Goal, targetDate time.Time) (any, error) {
	var resp goalResponse
	err := c.postJSON(ctx, "/api/study/goals/", token, createGoalRequest{
		Title:       goal.Title,
		Description: goal.Description,
		TargetDate:  targetDate.Format(time.RFC3339),
		Subject:     goal.Subject,
		Difficulty:  goal.Difficulty,
		IsActive:    true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.ID == nil {
		return nil, fmt.Errorf("目標作成レスポンスにIDがありません: %s", goal.Title)
	}
	return resp.ID, nil
}

// CreateSession は終了時刻endで終わる完了済みの学習セッションを記録する。
func (c *Client) CreateSession(ctx context.Context, token string, goalID any, session Session, end time.Time) error {
	duration := time.Duration(session.Minutes) * time.Minute
	return c.postJSON(ctx, "/api/study/sessions/", token, createSessionRequest{
		Goal:        goalID,
		StartTime:   end.Add(-duration).Format(time.RFC3339),
		EndTime:     end.Format(time.RFC3339),
		Duration:    int(duration.Seconds()),
		Notes:       session.Notes,
		IsCompleted: true,
	}, nil)
}

// postJSON はJSONボディをPOSTし、2xxならレスポンスをoutにデコードする。outがnilならボディは読み捨てる。
func (c *Client) postJSON(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("リクエストJSONの生成に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("APIの呼び出しに失敗しました",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &StatusError{
			Method:     http.MethodPost,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}
	return nil
}
