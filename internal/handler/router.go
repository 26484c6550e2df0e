// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/studymate/internal/metrics"
	"github.com/hitoshi/studymate/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	ChatRateLimiter    *middleware.RateLimiter // nilならレート制限なし

	// ヘルスチェックで件数を返すストア（nil可）
	StoreCounter StoreCounter

	// メトリクス
	Metrics         metrics.MetricsCollector
	MetricsGatherer prometheus.Gatherer // nilなら /metrics を公開しない

	// サービス
	AuthService    AuthServiceInterface
	GoalService    GoalServiceInterface
	SessionService SessionServiceInterface
	ChatService    ChatServiceInterface
	StatsService   StatsServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Token → Logging → Metrics → StripSlashes
//
// すべてのルートは末尾スラッシュ有無の両方で受け付ける。
// 未定義のルート・メソッドは404、OPTIONSはCORSミドルウェアが200で応答する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mc := deps.Metrics
	if mc == nil {
		mc = metrics.Nop()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))
	r.Use(middleware.NewTokenMiddleware(deps.AuthService))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(mc))
	r.Use(chimw.StripSlashes)

	r.NotFound(middleware.WriteRouteNotFound)
	r.MethodNotAllowed(middleware.WriteRouteNotFound)

	authHandler := NewAuthHandler(deps.AuthService)
	goalHandler := NewGoalHandler(deps.GoalService)
	sessionHandler := NewSessionHandler(deps.SessionService)
	chatHandler := NewChatHandler(deps.ChatService)
	statsHandler := NewStatsHandler(deps.StatsService)
	systemHandler := NewSystemHandler(deps.StoreCounter)

	// --- システム ---
	r.Get("/", systemHandler.Index)
	r.Get("/health", systemHandler.Health)
	r.Get("/api/health", systemHandler.Health)
	r.Post("/test", systemHandler.Echo)
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 認証 ---
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/social/login", authHandler.SocialLogin)
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
		r.Post("/logout", authHandler.Logout)
	})

	// プロフィール
	r.Get("/api/users/me", authHandler.Me)
	r.Get("/api/user", authHandler.Me)
	r.Get("/api/user/profile", authHandler.Me)

	// --- 学習目標 ---
	goalRoutes := func(r chi.Router) {
		r.Get("/", goalHandler.ListGoals)
		r.Post("/", goalHandler.CreateGoal)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", goalHandler.GetGoal)
			r.Put("/", goalHandler.UpdateGoal)
			r.Delete("/", goalHandler.DeleteGoal)
		})
	}
	r.Route("/api/study/goals", goalRoutes)
	r.Route("/api/goals", goalRoutes)

	// --- 学習セッション ---
	r.Route("/api/study/sessions", func(r chi.Router) {
		r.Get("/", sessionHandler.ListSessions)
		r.Post("/", sessionHandler.RecordSession)
		r.Post("/start", sessionHandler.StartSession)
		r.Post("/{id}/end", sessionHandler.EndSession)
	})

	// --- AIチャット ---
	chat := http.Handler(http.HandlerFunc(chatHandler.Chat))
	if deps.ChatRateLimiter != nil {
		chat = deps.ChatRateLimiter.Middleware()(chat)
	}
	r.Method(http.MethodPost, "/api/study/ai/chat", chat)
	r.Method(http.MethodPost, "/api/ai/chat", chat)
	r.Get("/api/study/ai/history", chatHandler.History)

	// --- 統計 ---
	r.Get("/api/study/stats/overview", statsHandler.Overview)

	return r
}
