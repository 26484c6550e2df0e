package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/studymate/internal/middleware"
	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/validation"
)

// maxRequestBodySize はJSONボディの最大読み込みサイズ。
const maxRequestBodySize = 1 << 20

// listResponse は一覧APIのページネーション形式。next/previousは常にnull。
type listResponse[T any] struct {
	Results  []T     `json:"results"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

func newListResponse[T any](results []T) listResponse[T] {
	if results == nil {
		results = []T{}
	}
	return listResponse[T]{Results: results, Count: len(results)}
}

// statusResponse は処理結果のみを返すレスポンス。
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeJSON はステータスコードとJSONボディを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// decodeBody はリクエストボディをTとしてデコードする。
// 空・不正なJSONはエラーにせず、Tのゼロ値（空オブジェクト相当）として扱う。
func decodeBody[T any](r *http.Request) T {
	var v T
	if r.Body == nil {
		return v
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil || len(body) == 0 {
		return v
	}
	if err := json.Unmarshal(body, &v); err != nil {
		slog.Debug("malformed request body treated as empty object",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		var zero T
		return zero
	}
	return v
}

// decodeAndValidate はボディをデコードし、validateタグで検証する。
func decodeAndValidate[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	req := decodeBody[T](r)
	if err := validation.Struct(req); err != nil {
		handleServiceError(w, err)
		return req, false
	}
	return req, true
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w, err)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeNotAuthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeNotFound, model.ErrCodeUserNotFound, model.ErrCodeGoalNotFound, model.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeUnsupportedProvider:
		return http.StatusNotImplemented
	case model.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// formatTime はレスポンス用にRFC3339形式へ変換する。
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatTimePtr はnilならnullになるよう*stringを返す。
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
