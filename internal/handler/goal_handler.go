package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/studymate/internal/goal"
	"github.com/hitoshi/studymate/internal/model"
)

// GoalServiceInterface は学習目標ハンドラーが必要とするサービスインターフェース。
type GoalServiceInterface interface {
	List(ctx context.Context) ([]model.Goal, error)
	Get(ctx context.Context, id string) (model.Goal, error)
	Create(ctx context.Context, in goal.CreateInput) (model.Goal, error)
	Update(ctx context.Context, id string, fields map[string]any) (model.Goal, error)
	Delete(ctx context.Context, id string) error
}

// GoalHandler は学習目標のHTTPハンドラー。
type GoalHandler struct {
	service GoalServiceInterface
}

// NewGoalHandler はGoalHandlerを生成する。
func NewGoalHandler(service GoalServiceInterface) *GoalHandler {
	return &GoalHandler{service: service}
}

// createGoalRequest は目標作成リクエストのボディ。未知のフィールドは無視する。
type createGoalRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	TargetDate  string `json:"target_date"`
	Subject     string `json:"subject"`
	Difficulty  string `json:"difficulty"`
	IsActive    *bool  `json:"is_active"`
}

// ListGoals は全目標をページネーション形式で返す。
// GET /api/study/goals
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newListResponse(goals))
}

// GetGoal は目標を1件返す。
// GET /api/study/goals/{id}
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, g)
}

// CreateGoal は目標を作成する。
// POST /api/study/goals
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[createGoalRequest](w, r)
	if !ok {
		return
	}

	g, err := h.service.Create(r.Context(), goal.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		Subject:     req.Subject,
		Difficulty:  req.Difficulty,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, g)
}

// UpdateGoal は送られたフィールドをそのまま目標にマージする。
// PUT /api/study/goals/{id}
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	fields := decodeBody[map[string]any](r)

	g, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, g)
}

// DeleteGoal は目標を削除する。存在しない場合も204を返す。
// DELETE /api/study/goals/{id}
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
