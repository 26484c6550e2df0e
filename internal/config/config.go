package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// セッション終了時に対象が存在しない場合の扱い
const (
	SessionEndModeLenient = "lenient"
	SessionEndModeStrict  = "strict"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// モックサーバーのため必須の環境変数は無く、全項目にデフォルト値がある。
type Config struct {
	// Server
	ServerPort string `env:"SERVER_PORT" envDefault:"8000"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Token
	TokenSecret string        `env:"TOKEN_SECRET" envDefault:"studymate_secret_key_2024"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	// OAuth
	KakaoUserInfoURL  string        `env:"KAKAO_USERINFO_URL" envDefault:"https://kapi.kakao.com/v2/user/me"`
	GoogleUserInfoURL string        `env:"GOOGLE_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v3/userinfo"`
	OAuthTimeout      time.Duration `env:"OAUTH_TIMEOUT" envDefault:"5s"`

	// Study
	SessionEndMode string `env:"SESSION_END_MODE" envDefault:"lenient"`
	SeedFixtures   bool   `env:"SEED_FIXTURES" envDefault:"true"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Rate Limit (req/min/client, 0で無効)
	RateLimitChat int `env:"RATE_LIMIT_CHAT" envDefault:"60"`

	// Seeder
	SeedBaseURL     string        `env:"SEED_BASE_URL" envDefault:"http://localhost:8000"`
	SeedInsecureTLS bool          `env:"SEED_INSECURE_TLS" envDefault:"false"`
	SeedTimeout     time.Duration `env:"SEED_TIMEOUT" envDefault:"10s"`
}

// Load は環境変数からConfigを読み込む。
// 値の形式が不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SlogLevel はLogLevelをslog.Levelに変換する。
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) validate() error {
	switch c.SessionEndMode {
	case SessionEndModeLenient, SessionEndModeStrict:
	default:
		return fmt.Errorf("SESSION_END_MODE must be %q or %q, got %q",
			SessionEndModeLenient, SessionEndModeStrict, c.SessionEndMode)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	if c.OAuthTimeout <= 0 {
		return fmt.Errorf("OAUTH_TIMEOUT must be positive, got %v", c.OAuthTimeout)
	}
	if c.RateLimitChat < 0 {
		return fmt.Errorf("RATE_LIMIT_CHAT must not be negative, got %d", c.RateLimitChat)
	}

	return nil
}
