// Package studysession は学習セッションの開始・記録・終了を提供する。
package studysession

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hitoshi/studymate/internal/config"
	"github.com/hitoshi/studymate/internal/metrics"
	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/repository"
)

// 終了時に実績時間が指定されなかった場合の乱数範囲（分）
const (
	minRandomDuration = 10
	maxRandomDuration = 60
)

// StartInput はセッション開始の入力。GoalIDの存在確認は行わない。
type StartInput struct {
	GoalID          any
	Subject         string
	Topic           string
	Type            string
	PlannedDuration *int
}

// RecordInput は完了済みセッションを一括記録する入力。
// Durationは秒単位。
type RecordInput struct {
	GoalID      any
	StartTime   *time.Time
	EndTime     *time.Time
	Duration    int
	Notes       string
	IsCompleted bool
}

// EndInput はセッション終了の入力。
type EndInput struct {
	Duration      *int
	Notes         string
	Effectiveness *int
}

// EndResult はセッション終了の結果。
// Foundがfalseの場合はlenientモードでの空振り応答を表す。
type EndResult struct {
	ID             string
	EndTime        time.Time
	ActualDuration int
	Notes          string
	Effectiveness  int
	Found          bool
}

// Service は学習セッションのサービス層。
type Service struct {
	repo     repository.StudySessionRepository
	endMode  string
	metrics  metrics.MetricsCollector
	now      func() time.Time
	randIntN func(n int) int
}

// NewService はServiceの新しいインスタンスを生成する。
// endModeは config.SessionEndModeLenient または config.SessionEndModeStrict。
func NewService(repo repository.StudySessionRepository, endMode string, mc metrics.MetricsCollector) *Service {
	if mc == nil {
		mc = metrics.Nop()
	}
	if endMode == "" {
		endMode = config.SessionEndModeLenient
	}
	return &Service{
		repo:     repo,
		endMode:  endMode,
		metrics:  mc,
		now:      time.Now,
		randIntN: rand.IntN,
	}
}

// List は登録順に全セッションを返す。
func (s *Service) List(ctx context.Context) ([]*model.StudySession, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("セッション一覧の取得に失敗しました: %w", err)
	}
	return sessions, nil
}

// Start は進行中・未一時停止のセッションを作成する。
func (s *Service) Start(ctx context.Context, in StartInput) (*model.StudySession, error) {
	session := &model.StudySession{
		GoalID:          in.GoalID,
		Subject:         orDefault(in.Subject, model.DefaultSessionSubject),
		Topic:           in.Topic,
		Type:            orDefault(in.Type, model.DefaultSessionType),
		PlannedDuration: model.DefaultPlannedDuration,
		StartTime:       s.now().UTC(),
		IsActive:        true,
	}
	if in.PlannedDuration != nil {
		session.PlannedDuration = *in.PlannedDuration
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	slog.Info("study session started",
		slog.String("session_id", session.ID),
		slog.Any("goal_id", session.GoalID),
	)
	s.metrics.RecordSessionStarted()
	return session, nil
}

// Record は開始・終了時刻の揃ったセッションを記録する。
// 時刻が省略された場合は現在時刻とDurationから補う。
func (s *Service) Record(ctx context.Context, in RecordInput) (*model.StudySession, error) {
	now := s.now().UTC()
	minutes := in.Duration / 60

	end := now
	if in.EndTime != nil {
		end = in.EndTime.UTC()
	}
	start := end.Add(-time.Duration(in.Duration) * time.Second)
	if in.StartTime != nil {
		start = in.StartTime.UTC()
	}

	session := &model.StudySession{
		GoalID:          in.GoalID,
		Subject:         model.DefaultSessionSubject,
		Type:            model.DefaultSessionType,
		PlannedDuration: minutes,
		ActualDuration:  minutes,
		StartTime:       start,
		Notes:           in.Notes,
		IsActive:        !in.IsCompleted,
	}
	if in.IsCompleted {
		session.EndTime = &end
		session.Status = model.SessionStatusCompleted
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの記録に失敗しました: %w", err)
	}

	slog.Info("study session recorded",
		slog.String("session_id", session.ID),
		slog.Int("duration_minutes", minutes),
	)
	s.metrics.RecordSessionStarted()
	return session, nil
}

// End はセッションを終了する。
// 実績時間が未指定なら10〜60分の乱数を使い、効果の既定値は3。
// 対象が存在しない場合、strictモードでは SESSION_NOT_FOUND、lenientモードでは何も更新せず成功形の結果を返す。
func (s *Service) End(ctx context.Context, id string, in EndInput) (*EndResult, error) {
	end := model.SessionEnd{
		Duration:      s.randIntN(maxRandomDuration-minRandomDuration+1) + minRandomDuration,
		Notes:         in.Notes,
		Effectiveness: model.DefaultSessionEffectiveness,
		EndTime:       s.now().UTC(),
	}
	if in.Duration != nil {
		end.Duration = *in.Duration
	}
	if in.Effectiveness != nil {
		end.Effectiveness = *in.Effectiveness
	}

	session, err := s.repo.End(ctx, id, end)
	if err != nil {
		return nil, fmt.Errorf("セッションの終了に失敗しました: %w", err)
	}

	found := session != nil
	s.metrics.RecordSessionEnded(found)
	if !found {
		if s.endMode == config.SessionEndModeStrict {
			return nil, model.NewSessionNotFoundError(id)
		}
		slog.Warn("end requested for unknown session", slog.String("session_id", id))
	}

	return &EndResult{
		ID:             id,
		EndTime:        end.EndTime,
		ActualDuration: end.Duration,
		Notes:          end.Notes,
		Effectiveness:  end.Effectiveness,
		Found:          found,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
