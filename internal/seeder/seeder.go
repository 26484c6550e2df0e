package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Account は投入するテストアカウント。
type Account struct {
	Email    string
	Password string
	Name     string
}

// Goal は各アカウントに作成する学習目標。目標日は実行時刻からTargetInDays日後。
type Goal struct {
	Title        string
	Description  string
	Subject      string
	Difficulty   string
	TargetInDays int
}

// Session は各目標に記録する完了済みセッション。
type Session struct {
	Minutes int
	Notes   string
}

// DefaultAccounts は投入するテストアカウント。
var DefaultAccounts = []Account{
	{Email: "student1@studymate.com", Password: "Test123!@#", Name: "김학생"},
	{Email: "student2@studymate.com", Password: "Test123!@#", Name: "이공부"},
	{Email: "test@studymate.com", Password: "Test123!@#", Name: "테스트유저"},
}

// DefaultGoals はアカウントごとに作成する学習目標。
var DefaultGoals = []Goal{
	{Title: "파이썬 기초 마스터", Description: "파이썬 기본 문법과 자료구조 완벽 이해", Subject: "프로그래밍", Difficulty: "중급", TargetInDays: 30},
	{Title: "토익 900점 달성", Description: "토익 시험 준비 및 고득점 달성", Subject: "영어", Difficulty: "고급", TargetInDays: 60},
	{Title: "선형대수학 완성", Description: "선형대수학 핵심 개념 이해 및 문제 풀이", Subject: "수학", Difficulty: "고급", TargetInDays: 45},
}

// DefaultSessions は目標ごとに記録する学習セッション。
var DefaultSessions = []Session{
	{Minutes: 45, Notes: "기본 개념 학습"},
	{Minutes: 60, Notes: "문제 풀이 연습"},
	{Minutes: 30, Notes: "복습 및 정리"},
}

// Report は投入結果の集計。
type Report struct {
	Accounts   int // 処理対象のアカウント数
	Registered int // 新規登録できたアカウント数
	LoggedIn   int // 登録に失敗しログインで続行したアカウント数
	Skipped    int // トークンを取得できず飛ばしたアカウント数
	Goals      int // 作成できた目標数
	Sessions   int // 記録できたセッション数
	Failures   int // 目標・セッションの作成失敗数
}

// Seeder はテストデータの投入を行う。
type Seeder struct {
	client   *Client
	logger   *slog.Logger
	accounts []Account
	goals    []Goal
	sessions []Session
	now      func() time.Time
	randIntN func(n int) int
}

// New はデフォルトのアカウント・目標・セッションでSeederを生成する。
func New(client *Client, logger *slog.Logger) *Seeder {
	return &Seeder{
		client:   client,
		logger:   logger,
		accounts: DefaultAccounts,
		goals:    DefaultGoals,
		sessions: DefaultSessions,
		now:      time.Now,
		randIntN: rand.IntN,
	}
}

// Run は全アカウントについて登録（失敗時はログイン）、目標作成、セッション記録を順に行う。
// 個々のリクエストの失敗はReportに数えて続行する。
// コンテキストのキャンセル時、または全アカウントでトークンを取得できなかった場合はエラーを返す。
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	report := &Report{Accounts: len(s.accounts)}

	s.logger.Info("テストデータの投入を開始しました",
		slog.String("base_url", s.client.baseURL),
		slog.Int("accounts", len(s.accounts)),
	)

	for _, acc := range s.accounts {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		token, err := s.authenticate(ctx, acc, report)
		if err != nil {
			s.logger.Warn("アカウントの準備に失敗したため飛ばします",
				slog.String("email", acc.Email),
				slog.String("error", err.Error()),
			)
			report.Skipped++
			continue
		}

		goalIDs := s.createGoals(ctx, token, report)
		for _, goalID := range goalIDs {
			s.recordSessions(ctx, token, goalID, report)
		}
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	s.logger.Info("テストデータの投入が完了しました",
		slog.Int("registered", report.Registered),
		slog.Int("logged_in", report.LoggedIn),
		slog.Int("skipped", report.Skipped),
		slog.Int("goals", report.Goals),
		slog.Int("sessions", report.Sessions),
		slog.Int("failures", report.Failures),
	)

	if report.Accounts > 0 && report.Skipped == report.Accounts {
		return report, errors.New("すべてのアカウントでトークンを取得できませんでした")
	}
	return report, nil
}

// authenticate は登録を試み、失敗した場合はログインでトークンを取得する。
func (s *Seeder) authenticate(ctx context.Context, acc Account, report *Report) (string, error) {
	token, regErr := s.client.Register(ctx, acc, s.username(acc.Email))
	if regErr == nil {
		s.logger.Info("ユーザー登録に成功しました", slog.String("email", acc.Email))
		report.Registered++
		return token, nil
	}

	s.logger.Info("ユーザー登録に失敗したためログインを試みます",
		slog.String("email", acc.Email),
		slog.String("error", regErr.Error()),
	)
	token, err := s.client.Login(ctx, acc.Email, acc.Password)
	if err != nil {
		return "", fmt.Errorf("register: %v; login: %w", regErr, err)
	}
	s.logger.Info("ログインに成功しました", slog.String("email", acc.Email))
	report.LoggedIn++
	return token, nil
}

func (s *Seeder) createGoals(ctx context.Context, token string, report *Report) []any {
	ids := make([]any, 0, len(s.goals))
	for _, g := range s.goals {
		target := s.now().AddDate(0, 0, g.TargetInDays)
		id, err := s.client.CreateGoal(ctx, token, g, target)
		if err != nil {
			s.logger.Warn("学習目標の作成に失敗しました",
				slog.String("title", g.Title),
				slog.String("error", err.Error()),
			)
			report.Failures++
			continue
		}
		s.logger.Info("学習目標を作成しました", slog.String("title", g.Title), slog.Any("goal_id", id))
		report.Goals++
		ids = append(ids, id)
	}
	return ids
}

func (s *Seeder) recordSessions(ctx context.Context, token string, goalID any, report *Report) {
	for _, sess := range s.sessions {
		if err := s.client.CreateSession(ctx, token, goalID, sess, s.now()); err != nil {
			s.logger.Warn("学習セッションの記録に失敗しました",
				slog.Any("goal_id", goalID),
				slog.String("error", err.Error()),
			)
			report.Failures++
			continue
		}
		report.Sessions++
	}
}

// username はメールアドレスのローカル部に100〜999の乱数を付けたユーザー名を返す。
func (s *Seeder) username(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local + strconv.Itoa(s.randIntN(900)+100)
}
