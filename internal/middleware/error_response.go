package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/studymate/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// errorにはHTTPステータスのテキスト（"Not Found" 等）を入れる。
type ErrorResponseBody struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
	Path     string `json:"path,omitempty"`
	Details  string `json:"details,omitempty"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeErrorBody(w, statusCode, apiErr, "")
}

// WriteRouteNotFound は未定義ルートへのアクセスに404を返す。ボディにはパスを含める。
func WriteRouteNotFound(w http.ResponseWriter, r *http.Request) {
	writeErrorBody(w, http.StatusNotFound, model.NewRouteNotFoundError(r.URL.Path), r.URL.Path)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// エラー文言はdetailsとしてクライアントにそのまま返す。
func WriteInternalServerError(w http.ResponseWriter, err error) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError(err))
}

func writeErrorBody(w http.ResponseWriter, statusCode int, apiErr *model.APIError, path string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Error:    http.StatusText(statusCode),
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
		Path:     path,
		Details:  apiErr.Details,
	})
}
