package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/studysession"
)

// SessionServiceInterface は学習セッションハンドラーが必要とするサービスインターフェース。
type SessionServiceInterface interface {
	List(ctx context.Context) ([]*model.StudySession, error)
	Start(ctx context.Context, in studysession.StartInput) (*model.StudySession, error)
	Record(ctx context.Context, in studysession.RecordInput) (*model.StudySession, error)
	End(ctx context.Context, id string, in studysession.EndInput) (*studysession.EndResult, error)
}

// SessionHandler は学習セッションのHTTPハンドラー。
type SessionHandler struct {
	service SessionServiceInterface
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(service SessionServiceInterface) *SessionHandler {
	return &SessionHandler{service: service}
}

type startSessionRequest struct {
	GoalID          any    `json:"goal_id"`
	Subject         string `json:"subject"`
	Topic           string `json:"topic"`
	Type            string `json:"type"`
	PlannedDuration *int   `json:"planned_duration" validate:"omitempty,gte=0"`
}

// recordSessionRequest は完了済みセッションの記録リクエスト。durationは秒。
type recordSessionRequest struct {
	Goal        any    `json:"goal"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Duration    int    `json:"duration" validate:"gte=0"`
	Notes       string `json:"notes"`
	IsCompleted bool   `json:"is_completed"`
}

type endSessionRequest struct {
	Duration      *int   `json:"duration" validate:"omitempty,gte=0"`
	Notes         string `json:"notes"`
	Effectiveness *int   `json:"effectiveness" validate:"omitempty,gte=1,lte=5"`
}

// sessionResponse はセッションのAPIレスポンス。
type sessionResponse struct {
	ID              string  `json:"id"`
	GoalID          any     `json:"goal_id"`
	Subject         string  `json:"subject"`
	Topic           string  `json:"topic"`
	Type            string  `json:"type"`
	PlannedDuration int     `json:"planned_duration"`
	ActualDuration  int     `json:"actual_duration"`
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time"`
	IsActive        bool    `json:"is_active"`
	IsPaused        bool    `json:"is_paused"`
	PausedDuration  int     `json:"paused_duration"`
	Notes           string  `json:"notes"`
	Effectiveness   int     `json:"effectiveness"`
	Status          string  `json:"status,omitempty"`
}

type endSessionResponse struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	EndTime        string `json:"end_time"`
	ActualDuration int    `json:"actual_duration"`
	Notes          string `json:"notes"`
	Effectiveness  int    `json:"effectiveness"`
}

// 記録リクエストで受け付ける時刻フォーマット。タイムゾーン無しはUTCとみなす。
var sessionTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ListSessions は全セッションをページネーション形式で返す。
// GET /api/study/sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]sessionResponse, len(sessions))
	for i, s := range sessions {
		results[i] = toSessionResponse(s)
	}
	writeJSON(w, http.StatusOK, newListResponse(results))
}

// StartSession は学習セッションを開始する。goal_idの存在確認はしない。
// POST /api/study/sessions/start
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[startSessionRequest](w, r)
	if !ok {
		return
	}

	session, err := h.service.Start(r.Context(), studysession.StartInput{
		GoalID:          req.GoalID,
		Subject:         req.Subject,
		Topic:           req.Topic,
		Type:            req.Type,
		PlannedDuration: req.PlannedDuration,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// RecordSession は開始・終了時刻を持つセッションを記録する。
// POST /api/study/sessions
func (h *SessionHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[recordSessionRequest](w, r)
	if !ok {
		return
	}

	start, err := parseSessionTime("start_time", req.StartTime)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	end, err := parseSessionTime("end_time", req.EndTime)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	session, err := h.service.Record(r.Context(), studysession.RecordInput{
		GoalID:      req.Goal,
		StartTime:   start,
		EndTime:     end,
		Duration:    req.Duration,
		Notes:       req.Notes,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

// EndSession は学習セッションを終了する。
// POST /api/study/sessions/{id}/end
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[endSessionRequest](w, r)
	if !ok {
		return
	}

	result, err := h.service.End(r.Context(), chi.URLParam(r, "id"), studysession.EndInput{
		Duration:      req.Duration,
		Notes:         req.Notes,
		Effectiveness: req.Effectiveness,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, endSessionResponse{
		ID:             result.ID,
		Status:         model.SessionStatusCompleted,
		Message:        "Session ended successfully",
		EndTime:        formatTime(result.EndTime),
		ActualDuration: result.ActualDuration,
		Notes:          result.Notes,
		Effectiveness:  result.Effectiveness,
	})
}

// parseSessionTime は空文字列ならnilを返す。解釈できない値はINVALID_REQUEST。
func parseSessionTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range sessionTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, model.NewInvalidRequestError(fmt.Sprintf("%s must be an ISO 8601 timestamp", field))
}

func toSessionResponse(s *model.StudySession) sessionResponse {
	return sessionResponse{
		ID:              s.ID,
		GoalID:          s.GoalID,
		Subject:         s.Subject,
		Topic:           s.Topic,
		Type:            s.Type,
		PlannedDuration: s.PlannedDuration,
		ActualDuration:  s.ActualDuration,
		StartTime:       formatTime(s.StartTime),
		EndTime:         formatTimePtr(s.EndTime),
		IsActive:        s.IsActive,
		IsPaused:        s.IsPaused,
		PausedDuration:  s.PausedDuration,
		Notes:           s.Notes,
		Effectiveness:   s.Effectiveness,
		Status:          s.Status,
	}
}
