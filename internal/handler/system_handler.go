package handler

import (
	"net/http"
	"time"
)

// APIVersion はインデックスで返すAPIバージョン。
const APIVersion = "2.0.0"

// StoreCounter はストアのコレクション別件数を返す。
type StoreCounter interface {
	Counts() map[string]int
}

// SystemHandler はインデックス、ヘルスチェック、エコーのHTTPハンドラー。
type SystemHandler struct {
	store StoreCounter
	now   func() time.Time
}

// NewSystemHandler はSystemHandlerを生成する。storeがnilならヘルスチェックに件数を含めない。
func NewSystemHandler(store StoreCounter) *SystemHandler {
	return &SystemHandler{store: store, now: time.Now}
}

type indexResponse struct {
	Status    string              `json:"status"`
	Message   string              `json:"message"`
	Version   string              `json:"version"`
	Timestamp string              `json:"timestamp"`
	Endpoints map[string][]string `json:"endpoints"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Store     string         `json:"store"`
	Counts    map[string]int `json:"counts,omitempty"`
	Timestamp string         `json:"timestamp"`
}

type echoResponse struct {
	Status    string `json:"status"`
	Echo      any    `json:"echo"`
	Timestamp string `json:"timestamp"`
}

// Index はサーバー情報と主要エンドポイントの一覧を返す。
// GET /
func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{
		Status:    "success",
		Message:   "StudyMate API Server is running!",
		Version:   APIVersion,
		Timestamp: formatTime(h.now()),
		Endpoints: map[string][]string{
			"auth":     {"/api/auth/login", "/api/auth/register", "/api/auth/logout", "/api/auth/social/login"},
			"user":     {"/api/users/me", "/api/user", "/api/user/profile"},
			"goals":    {"/api/study/goals", "/api/goals"},
			"sessions": {"/api/study/sessions", "/api/study/sessions/start", "/api/study/sessions/{id}/end"},
			"ai":       {"/api/study/ai/chat", "/api/study/ai/history"},
			"stats":    {"/api/study/stats/overview"},
		},
	})
}

// Health はヘルスチェック結果を返す。
// GET /health, /api/health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Service:   "studymate",
		Store:     "in-memory",
		Timestamp: formatTime(h.now()),
	}
	if h.store != nil {
		resp.Counts = h.store.Counts()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Echo は受け取ったJSONボディをそのまま返す。空・不正なJSONは {} になる。
// POST /test
func (h *SystemHandler) Echo(w http.ResponseWriter, r *http.Request) {
	body := decodeBody[any](r)
	if body == nil {
		body = map[string]any{}
	}
	writeJSON(w, http.StatusOK, echoResponse{
		Status:    "success",
		Echo:      body,
		Timestamp: formatTime(h.now()),
	})
}
