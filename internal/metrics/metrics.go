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
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordFavoriteMutation(op string)
	RecordOMDbRequest()
	RecordSearchCacheHit()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus        *prometheus.CounterVec
	requestLatency    prometheus.Histogram
	favoriteMutations *prometheus.CounterVec
	omdbRequests      prometheus.Counter
	searchCacheHits   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviemeter_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moviemeter_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		favoriteMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviemeter_favorite_mutations_total",
			Help: "お気に入りの変更操作数（add/update/remove別）",
		}, []string{"op"}),
		omdbRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moviemeter_omdb_requests_total",
			Help: "OMDb APIへのリクエスト数",
		}),
		searchCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moviemeter_search_cache_hits_total",
			Help: "検索キャッシュのヒット数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.favoriteMutations,
		c.omdbRequests,
		c.searchCacheHits,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordFavoriteMutation はお気に入りの変更操作を記録する。
func (c *Collector) RecordFavoriteMutation(op string) {
	c.favoriteMutations.WithLabelValues(op).Inc()
}

// RecordOMDbRequest はOMDb APIへのリクエストを記録する。
func (c *Collector) RecordOMDbRequest() {
	c.omdbRequests.Inc()
}

// RecordSearchCacheHit は検索キャッシュのヒットを記録する。
func (c *Collector) RecordSearchCacheHit() {
	c.searchCacheHits.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
