package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/studymate/internal/aichat"
	"github.com/hitoshi/studymate/internal/auth"
	"github.com/hitoshi/studymate/internal/config"
	"github.com/hitoshi/studymate/internal/goal"
	"github.com/hitoshi/studymate/internal/handler"
	"github.com/hitoshi/studymate/internal/logger"
	"github.com/hitoshi/studymate/internal/metrics"
	"github.com/hitoshi/studymate/internal/middleware"
	"github.com/hitoshi/studymate/internal/model"
	"github.com/hitoshi/studymate/internal/repository"
	"github.com/hitoshi/studymate/internal/security"
	"github.com/hitoshi/studymate/internal/seeder"
	"github.com/hitoshi/studymate/internal/stats"
	"github.com/hitoshi/studymate/internal/studysession"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定のログレベルで再設定する
	logger.SetupDefault(w, cfg.SlogLevel())

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	parsed := ParseArgs(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if parsed.Command == CommandHealthcheck {
		port := parsed.Port
		if port == "" {
			port = os.Getenv("SERVER_PORT")
		}
		if port == "" {
			port = "8000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if parsed.Port != "" {
		cfg.ServerPort = parsed.Port
	}

	slog.Info("starting application",
		slog.String("command", string(parsed.Command)),
		slog.String("port", cfg.ServerPort),
		slog.String("session_end_mode", cfg.SessionEndMode),
	)

	switch parsed.Command {
	case CommandSeed:
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		_, err := runSeed(ctx, cfg)
		return err
	default:
		return runServe(cfg)
	}
}

// Server はワイヤリング済みのHTTPハンドラーと、停止時に解放するリソースを保持する。
type Server struct {
	Handler http.Handler
	Store   *repository.MemoryStore

	rateLimiter *middleware.RateLimiter
}

// Close はバックグラウンドのリソースを解放する。複数回呼んでも安全。
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// NewServer は設定から全依存関係をワイヤリングしたServerを生成する。
// regにはメトリクスの登録先を渡す。
func NewServer(cfg *config.Config, l *slog.Logger, reg *prometheus.Registry) *Server {
	// 1. ストアの初期化
	store := repository.NewMemoryStore()
	if cfg.SeedFixtures {
		store.SeedFixtures(time.Now())
		slog.Info("fixture data seeded", slog.String("user", repository.FixtureUserEmail))
	}

	// 2. メトリクス・セキュリティ
	mc := metrics.NewCollector(reg)
	sanitizer := security.NewTextSanitizer()

	// 3. ドメインサービスの初期化
	providers := map[string]auth.UserInfoProvider{
		model.ProviderKakao: auth.NewKakaoOAuthProvider(auth.KakaoOAuthConfig{
			UserInfoURL: cfg.KakaoUserInfoURL,
			Timeout:     cfg.OAuthTimeout,
		}),
		model.ProviderGoogle: auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
			UserInfoURL: cfg.GoogleUserInfoURL,
			Timeout:     cfg.OAuthTimeout,
		}),
	}
	issuer := auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	authService := auth.NewService(store.Users(), store.Tokens(), issuer, providers, mc)
	goalService := goal.NewService(store.Goals(), sanitizer, mc)
	sessionService := studysession.NewService(store.Sessions(), cfg.SessionEndMode, mc)
	chatService := aichat.NewService(store.Chat(), sanitizer, mc)
	statsService := stats.NewService(store.Goals(), store.Sessions())

	// 4. ルーターの構築
	deps := &handler.RouterDeps{
		Logger:             l,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:            mc,
		MetricsGatherer:    reg,
		StoreCounter:       store,

		AuthService:    authService,
		GoalService:    goalService,
		SessionService: sessionService,
		ChatService:    chatService,
		StatsService:   statsService,
	}

	srv := &Server{Store: store}
	if cfg.RateLimitChat > 0 {
		srv.rateLimiter = middleware.NewRateLimiter(middleware.PerMinuteRateLimiterConfig(cfg.RateLimitChat))
		deps.ChatRateLimiter = srv.rateLimiter
	}

	srv.Handler = handler.NewRouter(deps)
	return srv
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := NewServer(cfg, slog.Default(), reg)
	defer app.Close()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server listen error: %w", err)
	case <-stop:
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runSeed は起動中のAPIサーバーにテストデータを投入する。
func runSeed(ctx context.Context, cfg *config.Config) (*seeder.Report, error) {
	client := seeder.NewClient(
		seeder.NewHTTPClient(cfg.SeedTimeout, cfg.SeedInsecureTLS),
		slog.Default(),
		cfg.SeedBaseURL,
	)

	report, err := seeder.New(client, slog.Default()).Run(ctx)
	if err != nil {
		return report, fmt.Errorf("seed failed: %w", err)
	}
	return report, nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
