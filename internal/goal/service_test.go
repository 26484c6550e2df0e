package goal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/studymate/internal/metrics"
	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/repository"
	"github.com/hitoshi/studymate/internal/security"
)

// --- モック ---

type mockGoalRepo struct {
	listFn     func(ctx context.Context) ([]model.Goal, error)
	findByIDFn func(ctx context.Context, id string) (model.Goal, error)
	createFn   func(ctx context.Context, goal model.Goal) (model.Goal, error)
	updateFn   func(ctx context.Context, id string, fields map[string]any) (model.Goal, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockGoalRepo) List(ctx context.Context) ([]model.Goal, error) {
	return m.listFn(ctx)
}
func (m *mockGoalRepo) FindByID(ctx context.Context, id string) (model.Goal, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockGoalRepo) Create(ctx context.Context, goal model.Goal) (model.Goal, error) {
	return m.createFn(ctx, goal)
}
func (m *mockGoalRepo) Update(ctx context.Context, id string, fields map[string]any) (model.Goal, error) {
	return m.updateFn(ctx, id, fields)
}
func (m *mockGoalRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func newMemoryService() (*Service, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	svc := NewService(store.Goals(), security.NewTextSanitizer(), metrics.Nop())
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestCreate_AppliesDefaults(t *testing.T) {
	svc, _ := newMemoryService()

	g, err := svc.Create(context.Background(), CreateInput{Title: "Go 마스터"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if g.ID() != "1" {
		t.Errorf("id = %q, want %q", g.ID(), "1")
	}
	if g[model.GoalFieldDescription] != "" {
		t.Errorf("description = %v, want empty", g[model.GoalFieldDescription])
	}
	if g[model.GoalFieldTargetDate] != DefaultTargetDate {
		t.Errorf("target_date = %v, want %v", g[model.GoalFieldTargetDate], DefaultTargetDate)
	}
	if g[model.GoalFieldProgress] != 0 {
		t.Errorf("progress = %v, want 0", g[model.GoalFieldProgress])
	}
	if g.Status() != model.GoalStatusInProgress {
		t.Errorf("status = %q, want %q", g.Status(), model.GoalStatusInProgress)
	}
	if g[model.GoalFieldCreatedAt] != "2025-05-01T12:00:00Z" {
		t.Errorf("created_at = %v", g[model.GoalFieldCreatedAt])
	}
	if _, ok := g[model.GoalFieldSubject]; ok {
		t.Error("subject should be absent when not supplied")
	}
}

func TestCreate_KeepsOptionalFieldsAndSanitizes(t *testing.T) {
	svc, _ := newMemoryService()
	active := true

	g, err := svc.Create(context.Background(), CreateInput{
		Title:      "<b>토익</b> 900점",
		Subject:    "영어",
		Difficulty: "고급",
		IsActive:   &active,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if g[model.GoalFieldTitle] != "토익 900점" {
		t.Errorf("title = %v, want %q", g[model.GoalFieldTitle], "토익 900점")
	}
	if g[model.GoalFieldSubject] != "영어" {
		t.Errorf("subject = %v, want %q", g[model.GoalFieldSubject], "영어")
	}
	if g[model.GoalFieldDifficulty] != "고급" {
		t.Errorf("difficulty = %v, want %q", g[model.GoalFieldDifficulty], "고급")
	}
	if g[model.GoalFieldIsActive] != true {
		t.Errorf("is_active = %v, want true", g[model.GoalFieldIsActive])
	}
}

func TestCreate_IDsUniqueAndListed(t *testing.T) {
	svc, _ := newMemoryService()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		g, err := svc.Create(ctx, CreateInput{Title: "goal"})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[g.ID()] {
			t.Errorf("duplicate id %q", g.ID())
		}
		seen[g.ID()] = true
	}

	goals, _ := svc.List(ctx)
	if len(goals) != 5 {
		t.Fatalf("len(goals) = %d, want 5", len(goals))
	}
	for _, g := range goals {
		if !seen[g.ID()] {
			t.Errorf("unexpected goal id %q in list", g.ID())
		}
	}
}

func TestUpdate_MergesVerbatimAndRefreshesUpdatedAt(t *testing.T) {
	svc, _ := newMemoryService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, CreateInput{Title: "before"})

	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	updated, err := svc.Update(ctx, created.ID(), map[string]any{
		"title":  "after",
		"status": "completed",
		"extra":  []any{"x"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updated[model.GoalFieldTitle] != "after" {
		t.Errorf("title = %v, want %q", updated[model.GoalFieldTitle], "after")
	}
	if updated.Status() != "completed" {
		t.Errorf("status = %q, want %q", updated.Status(), "completed")
	}
	if _, ok := updated["extra"]; !ok {
		t.Error("unknown fields should be merged verbatim")
	}
	if updated[model.GoalFieldUpdatedAt] != "2025-06-01T00:00:00Z" {
		t.Errorf("updated_at = %v", updated[model.GoalFieldUpdatedAt])
	}
	if updated[model.GoalFieldCreatedAt] != "2025-05-01T12:00:00Z" {
		t.Errorf("created_at should be unchanged, got %v", updated[model.GoalFieldCreatedAt])
	}
}

func TestCreate_KeepsAngleBracketText(t *testing.T) {
	svc, _ := newMemoryService()

	g, err := svc.Create(context.Background(), CreateInput{
		Title:       "vector<int> & map<K,V>",
		Description: "x<y 이면 참",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if g[model.GoalFieldTitle] != "vector<int> & map<K,V>" {
		t.Errorf("title = %v, want unchanged", g[model.GoalFieldTitle])
	}
	if g[model.GoalFieldDescription] != "x<y 이면 참" {
		t.Errorf("description = %v, want unchanged", g[model.GoalFieldDescription])
	}
}

func TestUpdate_SanitizesTextFields(t *testing.T) {
	svc, _ := newMemoryService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, CreateInput{Title: "before"})

	updated, err := svc.Update(ctx, created.ID(), map[string]any{
		"title":       "<script>alert(1)</script>선형대수",
		"description": "vector<int>",
		"notes":       "<b>kept verbatim</b>",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updated[model.GoalFieldTitle] != "선형대수" {
		t.Errorf("title = %v, want %q", updated[model.GoalFieldTitle], "선형대수")
	}
	if updated[model.GoalFieldDescription] != "vector<int>" {
		t.Errorf("description = %v, want unchanged", updated[model.GoalFieldDescription])
	}
	if updated["notes"] != "<b>kept verbatim</b>" {
		t.Errorf("notes = %v, other fields should merge verbatim", updated["notes"])
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newMemoryService()

	_, err := svc.Update(context.Background(), "404", map[string]any{"title": "x"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeGoalNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeGoalNotFound)
	}
}

func TestGet_FoundAndNotFound(t *testing.T) {
	svc, store := newMemoryService()
	store.SeedFixtures(time.Now())
	ctx := context.Background()

	g, err := svc.Get(ctx, "2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if g[model.GoalFieldTitle] != "Python 고급 과정" {
		t.Errorf("title = %v", g[model.GoalFieldTitle])
	}

	_, err = svc.Get(ctx, "99")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeGoalNotFound {
		t.Errorf("expected GOAL_NOT_FOUND, got %v", err)
	}
}

func TestDelete_RemovesAndToleratesMissing(t *testing.T) {
	svc, _ := newMemoryService()
	ctx := context.Background()
	g, _ := svc.Create(ctx, CreateInput{Title: "to delete"})

	if err := svc.Delete(ctx, g.ID()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	goals, _ := svc.List(ctx)
	for _, left := range goals {
		if left.ID() == g.ID() {
			t.Errorf("goal %q should be deleted", g.ID())
		}
	}

	if err := svc.Delete(ctx, "does-not-exist"); err != nil {
		t.Errorf("delete of missing id should succeed, got %v", err)
	}
}

func TestList_RepositoryError_Wrapped(t *testing.T) {
	repoErr := errors.New("boom")
	svc := NewService(&mockGoalRepo{
		listFn: func(ctx context.Context) ([]model.Goal, error) { return nil, repoErr },
	}, security.NewTextSanitizer(), nil)

	_, err := svc.List(context.Background())
	if !errors.Is(err, repoErr) {
		t.Errorf("expected wrapped repo error, got %v", err)
	}
}
