package repository

import (
	"time"

	"github.com/hitoshi/studymate/internal/model"
)

// 起動時に投入する固定テストアカウント
const (
	FixtureUserEmail = "test@studymate.com"
	FixtureUserToken = "test_token_12345"
)

// SeedFixtures はテストユーザー1件と学習目標のサンプル3件を投入する。
// 固定トークン FixtureUserToken でプロフィール取得ができる状態にする。
func (s *MemoryStore) SeedFixtures(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[FixtureUserEmail] = &model.User{
		Key:       FixtureUserEmail,
		ID:        "1",
		Provider:  model.ProviderLocal,
		Email:     FixtureUserEmail,
		Username:  "testuser",
		Name:      "테스트 유저",
		CreatedAt: now,
	}
	s.tokens[FixtureUserToken] = FixtureUserEmail

	ts := now.Format(time.RFC3339)
	s.goals = append(s.goals,
		sampleGoal("1", "Flutter 마스터하기", "Flutter로 완벽한 앱 개발하기", "2025-12-31", 10, 5, "10:00:00", 3, 2, "03:30:00", 35, ts),
		sampleGoal("2", "Python 고급 과정", "파이썬 고급 기능 학습", "2025-11-30", 8, 4, "08:00:00", 5, 2, "04:48:00", 60, ts),
		sampleGoal("3", "AI/ML 기초", "인공지능과 머신러닝 기초 이해", "2025-10-31", 15, 10, "20:00:00", 3, 2, "04:00:00", 20, ts),
	)
}

func sampleGoal(
	id, title, description, endDate string,
	targetSummaries, targetQuizzes int, targetStudyTime string,
	currentSummaries, currentQuizzes int, currentStudyTime string,
	completed int, ts string,
) model.Goal {
	return model.Goal{
		"id":                  id,
		"title":               title,
		"description":         description,
		"goal_type":           "custom",
		"status":              model.GoalStatusActive,
		"start_date":          "2025-01-01",
		"end_date":            endDate,
		"target_date":         endDate,
		"target_summaries":    targetSummaries,
		"target_quizzes":      targetQuizzes,
		"target_study_time":   targetStudyTime,
		"current_summaries":   currentSummaries,
		"current_quizzes":     currentQuizzes,
		"current_study_time":  currentStudyTime,
		"progress":            map[string]any{"completed": completed, "total": 100},
		"progress_percentage": float64(completed),
		"created_at":          ts,
		"updated_at":          ts,
	}
}
