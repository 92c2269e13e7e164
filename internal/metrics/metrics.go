// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordBoardUpsert()
	RecordBoardMove(state string)
	RecordHTTPStatus(statusCode int)
	RecordQueryLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	boardUpserts prometheus.Counter
	boardMoves   *prometheus.CounterVec
	httpStatus   *prometheus.CounterVec
	queryLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		boardUpserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oportunizando_board_upserts_total",
			Help: "ボードへの機会追加（リセット含む）の合計数",
		}),
		boardMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oportunizando_board_moves_total",
			Help: "移動先状態別のカード移動の合計数",
		}, []string{"state"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oportunizando_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		queryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "oportunizando_query_latency_seconds",
			Help:    "データベースクエリのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.boardUpserts,
		c.boardMoves,
		c.httpStatus,
		c.queryLatency,
	)

	return c
}

// RecordBoardUpsert はボードへの機会追加を記録する。
func (c *Collector) RecordBoardUpsert() {
	c.boardUpserts.Inc()
}

// RecordBoardMove はカードの状態移動を記録する。
func (c *Collector) RecordBoardMove(state string) {
	c.boardMoves.WithLabelValues(state).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordQueryLatency はDBクエリのレイテンシを記録する。
func (c *Collector) RecordQueryLatency(duration time.Duration) {
	c.queryLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
