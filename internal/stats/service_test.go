package stats

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/repository"
)

func TestOverview_CountsGoalsAndSessions(t *testing.T) {
	store := repository.NewMemoryStore()
	store.SeedFixtures(time.Now())
	ctx := context.Background()

	// fixtures: active x3
	store.Goals().Create(ctx, model.Goal{"title": "a", "status": model.GoalStatusInProgress})
	store.Goals().Create(ctx, model.Goal{"title": "b", "status": model.GoalStatusCompleted})
	store.Sessions().Create(ctx, &model.StudySession{})
	store.Sessions().Create(ctx, &model.StudySession{})

	svc := NewService(store.Goals(), store.Sessions())
	svc.randIntN = func(n int) int { return 0 }

	o, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if o.ActiveGoals != 4 {
		t.Errorf("ActiveGoals = %d, want 4", o.ActiveGoals)
	}
	if o.CompletedGoals != 1 {
		t.Errorf("CompletedGoals = %d, want 1", o.CompletedGoals)
	}
	if o.TotalSessions != 2 {
		t.Errorf("TotalSessions = %d, want 2", o.TotalSessions)
	}
	if o.TotalStudyTime != 100 {
		t.Errorf("TotalStudyTime = %d, want 100", o.TotalStudyTime)
	}
}

func TestOverview_WeeklyDataShape(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewService(store.Goals(), store.Sessions())

	o, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if len(o.WeeklyData) != len(want) {
		t.Fatalf("len(WeeklyData) = %d, want %d", len(o.WeeklyData), len(want))
	}
	for i, d := range o.WeeklyData {
		if d.Day != want[i] {
			t.Errorf("WeeklyData[%d].Day = %q, want %q", i, d.Day, want[i])
		}
		if d.Hours < 1 || d.Hours > 5 {
			t.Errorf("WeeklyData[%d].Hours = %d, want within [1, 5]", i, d.Hours)
		}
	}
	if o.TotalStudyTime < 100 || o.TotalStudyTime > 500 {
		t.Errorf("TotalStudyTime = %d, want within [100, 500]", o.TotalStudyTime)
	}
}
