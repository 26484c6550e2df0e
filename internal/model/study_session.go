package model

import "time"

// 学習セッションのデフォルト値
const (
	DefaultSessionSubject       = "General Study"
	DefaultSessionType          = "focused"
	DefaultPlannedDuration      = 25
	DefaultSessionEffectiveness = 3
	SessionStatusCompleted      = "completed"
)

// StudySession は目標に紐づく学習セッションを表す。
// GoalIDの存在確認は行わない。
type StudySession struct {
	ID              string
	GoalID          any
	Subject         string
	Topic           string
	Type            string
	PlannedDuration int
	ActualDuration  int
	StartTime       time.Time
	EndTime         *time.Time
	IsActive        bool
	IsPaused        bool
	PausedDuration  int
	Notes           string
	Effectiveness   int
	Status          string
}

// SessionEnd はセッション終了時にクライアントから渡される値。
type SessionEnd struct {
	Duration      int
	Notes         string
	Effectiveness int
	EndTime       time.Time
}
