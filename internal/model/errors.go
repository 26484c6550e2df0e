// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, study, routing, system
	Action   string // ユーザー向け対処方法
	Details  string // 補足情報（内部エラーの原文など）。空なら出力しない
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeNotAuthenticated    = "NOT_AUTHENTICATED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeUnsupportedProvider = "UNSUPPORTED_PROVIDER"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeGoalNotFound        = "GOAL_NOT_FOUND"
	ErrCodeSessionNotFound     = "SESSION_NOT_FOUND"
	ErrCodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewNotAuthenticatedError は認証が必要なエンドポイントでトークンが無い・無効な場合のエラーを生成する。
func NewNotAuthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeNotAuthenticated,
		Message:  "인증이 필요합니다",
		Category: "auth",
		Action:   "Authorization: Token <token> ヘッダーを付けて再度お試しください。",
	}
}

// NewRouteNotFoundError は未定義ルートへのアクセスエラーを生成する。
func NewRouteNotFoundError(path string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("Not Found: %s", path),
		Category: "routing",
		Action:   "エンドポイントのパスとメソッドを確認してください。",
	}
}

// NewInvalidRequestError はリクエスト形式の検証エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  reason,
		Category: "validation",
		Action:   "必須フィールドを含めてリクエストしてください。",
	}
}

// NewUnsupportedProviderError は未対応のソーシャルログインプロバイダーのエラーを生成する。
func NewUnsupportedProviderError(provider string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedProvider,
		Message:  fmt.Sprintf("%s 로그인은 아직 지원되지 않습니다", provider),
		Category: "auth",
		Action:   "kakao または google でログインしてください。",
	}
}

// NewUserNotFoundError はトークンに紐づくユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "사용자를 찾을 수 없습니다",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewGoalNotFoundError は学習目標が見つからない場合のエラーを生成する。
func NewGoalNotFoundError(goalID string) *APIError {
	return &APIError{
		Code:     ErrCodeGoalNotFound,
		Message:  fmt.Sprintf("Goal not found: %s", goalID),
		Category: "study",
		Action:   "目標IDを確認してください。",
	}
}

// NewSessionNotFoundError は学習セッションが見つからない場合のエラーを生成する。
func NewSessionNotFoundError(sessionID string) *APIError {
	return &APIError{
		Code:     ErrCodeSessionNotFound,
		Message:  fmt.Sprintf("Session not found: %s", sessionID),
		Category: "study",
		Action:   "セッションIDを確認してください。",
	}
}

// NewInternalError は想定外のエラーを500として返すためのエラーを生成する。
func NewInternalError(err error) *APIError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "서버 오류가 발생했습니다",
		Category: "system",
		Action:   "時間をおいて再度お試しください。",
		Details:  details,
	}
}

// NewRateLimitError はレート制限超過エラーを生成する。
func NewRateLimitError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimitExceeded,
		Message:  "요청이 너무 많습니다",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
