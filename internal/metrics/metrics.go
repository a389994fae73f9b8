// Package metrics는 Prometheus 메트릭의 수집과 공개를 제공한다.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector는 메트릭 수집 인터페이스.
// 서비스 계층과 워커에서 사용한다.
type MetricsCollector interface {
	RecordPostCreated(category string)
	RecordCommentCreated()
	RecordLikeRecorded()
	RecordGenerateSuccess(kind string)
	RecordGenerateFailure(kind string)
	RecordGenerateLatency(duration time.Duration)
	RecordNewsImported(count int)
	RecordNewsImportFailure(reason string)
	RecordHTTPStatus(statusCode int)
}

// Collector는 Prometheus 메트릭을 수집하는 구현.
type Collector struct {
	postCreated     *prometheus.CounterVec
	commentCreated  prometheus.Counter
	likeRecorded    prometheus.Counter
	generateSuccess *prometheus.CounterVec
	generateFail    *prometheus.CounterVec
	generateLatency prometheus.Histogram
	newsImported    prometheus.Counter
	newsImportFail  *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
}

// NewCollector는 새 Collector를 생성하고 지정 레지스트리에 메트릭을 등록한다.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		postCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aibuup_posts_created_total",
			Help: "카테고리별 게시글 등록 합계",
		}, []string{"category"}),
		commentCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aibuup_comments_created_total",
			Help: "댓글 등록 합계",
		}),
		likeRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aibuup_likes_recorded_total",
			Help: "좋아요 기록 합계",
		}),
		generateSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aibuup_generate_success_total",
			Help: "종류별 AI 생성 성공 합계",
		}, []string{"kind"}),
		generateFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aibuup_generate_fail_total",
			Help: "종류별 AI 생성 실패 합계",
		}, []string{"kind"}),
		generateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aibuup_generate_latency_seconds",
			Help:    "AI 생성 요청의 레이턴시(초)",
			Buckets: prometheus.DefBuckets,
		}),
		newsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aibuup_news_imported_total",
			Help: "수집 워커가 등록한 뉴스 합계",
		}),
		newsImportFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aibuup_news_import_fail_total",
			Help: "원인별 뉴스 수집 실패 합계",
		}, []string{"reason"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aibuup_http_status_total",
			Help: "HTTP 상태 코드별 응답 수",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.postCreated,
		c.commentCreated,
		c.likeRecorded,
		c.generateSuccess,
		c.generateFail,
		c.generateLatency,
		c.newsImported,
		c.newsImportFail,
		c.httpStatus,
	)

	return c
}

// RecordPostCreated는 게시글 등록을 기록한다.
func (c *Collector) RecordPostCreated(category string) {
	c.postCreated.WithLabelValues(category).Inc()
}

// RecordCommentCreated는 댓글 등록을 기록한다.
func (c *Collector) RecordCommentCreated() {
	c.commentCreated.Inc()
}

// RecordLikeRecorded는 좋아요 기록을 기록한다.
func (c *Collector) RecordLikeRecorded() {
	c.likeRecorded.Inc()
}

// RecordGenerateSuccess는 AI 생성 성공을 기록한다.
// kind는 scam_report, assisted_chat, assisted_report 등.
func (c *Collector) RecordGenerateSuccess(kind string) {
	c.generateSuccess.WithLabelValues(kind).Inc()
}

// RecordGenerateFailure는 AI 생성 실패를 기록한다.
func (c *Collector) RecordGenerateFailure(kind string) {
	c.generateFail.WithLabelValues(kind).Inc()
}

// RecordGenerateLatency는 AI 생성 레이턴시를 기록한다.
func (c *Collector) RecordGenerateLatency(duration time.Duration) {
	c.generateLatency.Observe(duration.Seconds())
}

// RecordNewsImported는 수집 워커가 등록한 뉴스 수를 기록한다.
func (c *Collector) RecordNewsImported(count int) {
	c.newsImported.Add(float64(count))
}

// RecordNewsImportFailure는 뉴스 수집 실패를 기록한다.
func (c *Collector) RecordNewsImportFailure(reason string) {
	c.newsImportFail.WithLabelValues(reason).Inc()
}

// RecordHTTPStatus는 HTTP 상태 코드를 기록한다.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler는 Prometheus 스크레이프용 HTTP 핸들러를 반환한다.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute는 /metrics 엔드포인트를 제공하는 HTTP 핸들러를 반환한다.
// Prometheus 스크레이프에 대응한다.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
