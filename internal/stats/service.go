// Package stats は学習統計の概要を生成する。
// 学習時間と週次データは乱数のモック値で、件数のみストアから数える。
package stats

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/repository"
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayHours は1日分の学習時間。
type DayHours struct {
	Day   string
	Hours int
}

// Overview は統計概要。
type Overview struct {
	TotalStudyTime int
	TotalSessions  int
	ActiveGoals    int
	CompletedGoals int
	WeeklyData     []DayHours
}

// Service は統計のサービス層。
type Service struct {
	goals    repository.GoalRepository
	sessions repository.StudySessionRepository
	randIntN func(n int) int
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(goals repository.GoalRepository, sessions repository.StudySessionRepository) *Service {
	return &Service{
		goals:    goals,
		sessions: sessions,
		randIntN: rand.IntN,
	}
}

// Overview は統計概要を返す。
// active_goals は in_progress と active の両方を数える。
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	sessionCount, err := s.sessions.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	o := &Overview{
		TotalStudyTime: s.between(100, 500),
		TotalSessions:  sessionCount,
		WeeklyData:     make([]DayHours, 0, len(weekdays)),
	}
	for _, g := range goals {
		switch g.Status() {
		case model.GoalStatusInProgress, model.GoalStatusActive:
			o.ActiveGoals++
		case model.GoalStatusCompleted:
			o.CompletedGoals++
		}
	}
	for _, day := range weekdays {
		o.WeeklyData = append(o.WeeklyData, DayHours{Day: day, Hours: s.between(1, 5)})
	}
	return o, nil
}

// between は[lo, hi]の整数乱数を返す。
func (s *Service) between(lo, hi int) int {
	return lo + s.randIntN(hi-lo+1)
}
