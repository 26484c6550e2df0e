package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/studymate/internal/goal"
	"github.com/hitoshi/studymate/internal/model"
)

func TestGoalHandler_ListGoals_Envelope(t *testing.T) {
	svc := &mockGoalService{
		listFn: func(ctx context.Context) ([]model.Goal, error) {
			return []model.Goal{
				{"id": "1", "title": "Flutter 마스터하기"},
				{"id": "2", "title": "Python 고급 과정"},
			}, nil
		},
	}
	h := NewGoalHandler(svc)

	w := httptest.NewRecorder()
	h.ListGoals(w, httptest.NewRequest(http.MethodGet, "/api/study/goals", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeRecorder(t, w)
	if resp["count"] != float64(2) {
		t.Errorf("count = %v, want 2", resp["count"])
	}
	if results, ok := resp["results"].([]any); !ok || len(results) != 2 {
		t.Errorf("results = %v, want 2 items", resp["results"])
	}
	for _, key := range []string{"next", "previous"} {
		v, ok := resp[key]
		if !ok {
			t.Errorf("%s should be present", key)
		}
		if v != nil {
			t.Errorf("%s = %v, want null", key, v)
		}
	}
}

func TestGoalHandler_ListGoals_EmptyIsArray(t *testing.T) {
	h := NewGoalHandler(&mockGoalService{})

	w := httptest.NewRecorder()
	h.ListGoals(w, httptest.NewRequest(http.MethodGet, "/api/study/goals", nil))

	if !strings.Contains(w.Body.String(), `"results":[]`) {
		t.Errorf("body = %s, want empty results array", w.Body.String())
	}
}

func TestGoalHandler_CreateGoal_Returns201(t *testing.T) {
	var gotInput goal.CreateInput
	svc := &mockGoalService{
		createFn: func(ctx context.Context, in goal.CreateInput) (model.Goal, error) {
			gotInput = in
			return model.Goal{"id": "4", "title": in.Title, "status": "in_progress", "progress": 0}, nil
		},
	}
	h := NewGoalHandler(svc)

	body := `{"title":"토익 900점 달성","subject":"영어","difficulty":"고급","is_active":true,"unknown":"ignored"}`
	w := httptest.NewRecorder()
	h.CreateGoal(w, httptest.NewRequest(http.MethodPost, "/api/study/goals", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if gotInput.Title != "토익 900점 달성" || gotInput.Subject != "영어" || gotInput.Difficulty != "고급" {
		t.Errorf("input = %+v, unexpected", gotInput)
	}
	if gotInput.IsActive == nil || !*gotInput.IsActive {
		t.Errorf("IsActive = %v, want true", gotInput.IsActive)
	}
	resp := decodeRecorder(t, w)
	if resp["id"] != "4" {
		t.Errorf("id = %v, want %q", resp["id"], "4")
	}
}

func TestGoalHandler_CreateGoal_RequiresTitle(t *testing.T) {
	svc := &mockGoalService{
		createFn: func(ctx context.Context, in goal.CreateInput) (model.Goal, error) {
			t.Error("service should not be called")
			return nil, nil
		},
	}
	h := NewGoalHandler(svc)

	w := httptest.NewRecorder()
	h.CreateGoal(w, httptest.NewRequest(http.MethodPost, "/api/study/goals", strings.NewReader(`{"description":"no title"}`)))

	assertErrorCode(t, w, http.StatusBadRequest, model.ErrCodeInvalidRequest)
}

func TestGoalHandler_GetGoal(t *testing.T) {
	svc := &mockGoalService{
		getFn: func(ctx context.Context, id string) (model.Goal, error) {
			if id == "1" {
				return model.Goal{"id": "1"}, nil
			}
			return nil, model.NewGoalNotFoundError(id)
		},
	}
	h := NewGoalHandler(svc)

	w := httptest.NewRecorder()
	h.GetGoal(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/study/goals/1", nil), "id", "1"))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	h.GetGoal(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/study/goals/99", nil), "id", "99"))
	assertErrorCode(t, w, http.StatusNotFound, model.ErrCodeGoalNotFound)
}

func TestGoalHandler_UpdateGoal_PassesFieldsVerbatim(t *testing.T) {
	var gotID string
	var gotFields map[string]any
	svc := &mockGoalService{
		updateFn: func(ctx context.Context, id string, fields map[string]any) (model.Goal, error) {
			gotID, gotFields = id, fields
			g := model.Goal{"id": id}
			g.Merge(fields)
			return g, nil
		},
	}
	h := NewGoalHandler(svc)

	body := `{"status":"completed","progress":{"completed":10,"total":10}}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/study/goals/2", strings.NewReader(body)), "id", "2")
	w := httptest.NewRecorder()

	h.UpdateGoal(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotID != "2" {
		t.Errorf("id = %q, want %q", gotID, "2")
	}
	if gotFields["status"] != "completed" {
		t.Errorf("fields[status] = %v, want %q", gotFields["status"], "completed")
	}
	if _, ok := gotFields["progress"].(map[string]any); !ok {
		t.Errorf("fields[progress] = %T, want object", gotFields["progress"])
	}
}

func TestGoalHandler_UpdateGoal_NotFound(t *testing.T) {
	h := NewGoalHandler(&mockGoalService{})

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/study/goals/9", strings.NewReader(`{}`)), "id", "9")
	w := httptest.NewRecorder()

	h.UpdateGoal(w, req)

	assertErrorCode(t, w, http.StatusNotFound, model.ErrCodeGoalNotFound)
}

func TestGoalHandler_DeleteGoal_Returns204(t *testing.T) {
	var gotID string
	svc := &mockGoalService{
		deleteFn: func(ctx context.Context, id string) error {
			gotID = id
			return nil
		},
	}
	h := NewGoalHandler(svc)

	w := httptest.NewRecorder()
	h.DeleteGoal(w, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/study/goals/42", nil), "id", "42"))

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if gotID != "42" {
		t.Errorf("id = %q, want %q", gotID, "42")
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}
