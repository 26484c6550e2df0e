// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OAuth照会結果のラベル値
const (
	OAuthResultVerified = "verified"
	OAuthResultFallback = "fallback"
	OAuthResultSkipped  = "skipped"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とHTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordLogin(provider string, created bool)
	RecordOAuthVerify(provider, result string)
	RecordOAuthLatency(duration time.Duration)
	RecordGoalCreated()
	RecordSessionStarted()
	RecordSessionEnded(found bool)
	RecordChatMessage()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	logins          *prometheus.CounterVec
	oauthVerify     *prometheus.CounterVec
	oauthLatency    prometheus.Histogram
	goalsCreated    prometheus.Counter
	sessionsStarted prometheus.Counter
	sessionsEnded   *prometheus.CounterVec
	chatMessages    prometheus.Counter
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studymate_logins_total",
			Help: "プロバイダー別・新規作成有無別のログイン数",
		}, []string{"provider", "created"}),
		oauthVerify: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studymate_oauth_verify_total",
			Help: "OAuthユーザー情報照会の結果別件数",
		}, []string{"provider", "result"}),
		oauthLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "studymate_oauth_latency_seconds",
			Help:    "OAuthユーザー情報照会のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		goalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studymate_goals_created_total",
			Help: "作成された学習目標の合計数",
		}),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studymate_sessions_started_total",
			Help: "開始または記録された学習セッションの合計数",
		}),
		sessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studymate_sessions_ended_total",
			Help: "終了要求された学習セッション数（対象の有無別）",
		}, []string{"found"}),
		chatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studymate_chat_messages_total",
			Help: "AIチャットの質問数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studymate_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.logins,
		c.oauthVerify,
		c.oauthLatency,
		c.goalsCreated,
		c.sessionsStarted,
		c.sessionsEnded,
		c.chatMessages,
		c.httpStatus,
	)

	return c
}

// RecordLogin はログインを記録する。
func (c *Collector) RecordLogin(provider string, created bool) {
	c.logins.WithLabelValues(provider, strconv.FormatBool(created)).Inc()
}

// RecordOAuthVerify はOAuth照会の結果を記録する。
func (c *Collector) RecordOAuthVerify(provider, result string) {
	c.oauthVerify.WithLabelValues(provider, result).Inc()
}

// RecordOAuthLatency はOAuth照会のレイテンシを記録する。
func (c *Collector) RecordOAuthLatency(duration time.Duration) {
	c.oauthLatency.Observe(duration.Seconds())
}

// RecordGoalCreated は学習目標の作成を記録する。
func (c *Collector) RecordGoalCreated() {
	c.goalsCreated.Inc()
}

// RecordSessionStarted は学習セッションの作成を記録する。
func (c *Collector) RecordSessionStarted() {
	c.sessionsStarted.Inc()
}

// RecordSessionEnded は学習セッションの終了要求を記録する。
func (c *Collector) RecordSessionEnded(found bool) {
	c.sessionsEnded.WithLabelValues(strconv.FormatBool(found)).Inc()
}

// RecordChatMessage はAIチャットの質問を記録する。
func (c *Collector) RecordChatMessage() {
	c.chatMessages.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Nop は何も記録しないMetricsCollectorを返す。
func Nop() MetricsCollector {
	return nopCollector{}
}

type nopCollector struct{}

func (nopCollector) RecordLogin(string, bool) {}
func (nopCollector) RecordOAuthVerify(string, string) {}
func (nopCollector) RecordOAuthLatency(time.Duration) {}
func (nopCollector) RecordGoalCreated() {}
func (nopCollector) RecordSessionStarted() {}
func (nopCollector) RecordSessionEnded(bool) {}
func (nopCollector) RecordChatMessage() {}
func (nopCollector) RecordHTTPStatus(int) {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = nopCollector{}
)
