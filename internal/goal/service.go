// Package goal は学習目標の管理ロジックを提供する。
package goal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/studymate/internal/metrics"
	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/repository"
	"github.com/hitoshi/studymate/internal/security"
)

// DefaultTargetDate は目標日の指定が無い場合の値。
const DefaultTargetDate = "2025-12-31"

// CreateInput は学習目標作成の入力。
// Subject, Difficulty, IsActive は指定された場合のみ保存する。
type CreateInput struct {
	Title       string
	Description string
	TargetDate  string
	Subject     string
	Difficulty  string
	IsActive    *bool
}

// Service は学習目標のサービス層。
type Service struct {
	repo      repository.GoalRepository
	sanitizer security.TextSanitizer
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.GoalRepository, sanitizer security.TextSanitizer, mc metrics.MetricsCollector) *Service {
	if mc == nil {
		mc = metrics.Nop()
	}
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   mc,
		now:       time.Now,
	}
}

// List は登録順に全目標を返す。
func (s *Service) List(ctx context.Context) ([]model.Goal, error) {
	goals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("目標一覧の取得に失敗しました: %w", err)
	}
	return goals, nil
}

// Get は指定IDの目標を返す。
func (s *Service) Get(ctx context.Context, id string) (model.Goal, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("目標の取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGoalNotFoundError(id)
	}
	return g, nil
}

// Create は新しい目標を進行中ステータスで作成する。
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Goal, error) {
	ts := s.timestamp()
	targetDate := in.TargetDate
	if targetDate == "" {
		targetDate = DefaultTargetDate
	}

	g := model.Goal{
		model.GoalFieldTitle:       s.sanitizer.Sanitize(in.Title),
		model.GoalFieldDescription: s.sanitizer.Sanitize(in.Description),
		model.GoalFieldTargetDate:  targetDate,
		model.GoalFieldProgress:    0,
		model.GoalFieldStatus:      model.GoalStatusInProgress,
		model.GoalFieldCreatedAt:   ts,
		model.GoalFieldUpdatedAt:   ts,
	}
	if in.Subject != "" {
		g[model.GoalFieldSubject] = in.Subject
	}
	if in.Difficulty != "" {
		g[model.GoalFieldDifficulty] = in.Difficulty
	}
	if in.IsActive != nil {
		g[model.GoalFieldIsActive] = *in.IsActive
	}

	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("目標の作成に失敗しました: %w", err)
	}

	slog.Info("goal created", slog.String("goal_id", created.ID()))
	s.metrics.RecordGoalCreated()
	return created, nil
}

// Update は指定フィールドを検証なしでマージし、updated_atを更新する。
// idやstatusの上書きも受け付ける。タイトルと説明は作成時と同じくサニタイズする。
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (model.Goal, error) {
	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		if text, ok := v.(string); ok && (k == model.GoalFieldTitle || k == model.GoalFieldDescription) {
			v = s.sanitizer.Sanitize(text)
		}
		merged[k] = v
	}
	merged[model.GoalFieldUpdatedAt] = s.timestamp()

	g, err := s.repo.Update(ctx, id, merged)
	if err != nil {
		return nil, fmt.Errorf("目標の更新に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGoalNotFoundError(id)
	}
	return g, nil
}

// Delete は指定IDの目標を削除する。存在しないIDでも成功とする。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("目標の削除に失敗しました: %w", err)
	}
	slog.Info("goal deleted", slog.String("goal_id", id))
	return nil
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
