package telemetry

import (
	"strconv"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric 未啟用時所有欄位為 nil，方法皆可安全呼叫
type Metric struct {
	HttpRequestsTotal     *prometheus.CounterVec
	HttpRequestDuration   *prometheus.HistogramVec
	ImagenRequestsTotal   *prometheus.CounterVec
	ImagenUpstreamLatency *prometheus.HistogramVec
	TranslateTotal        *prometheus.CounterVec
	TokenFetchTotal       *prometheus.CounterVec
	RateLimitTotal        *prometheus.CounterVec
	config                *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	name := func(m core.MetricName) string { return config.App.Name + "_" + string(m) }

	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{Name: name(core.MetricHttpRequestsTotal), Help: "Total received API requests"},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{Name: name(core.MetricHttpRequestDuration), Help: "API request duration (seconds)", Buckets: buckets},
			labelNames(core.MetricLabelEndpoint),
		),
		ImagenRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{Name: name(core.MetricImagenRequestsTotal), Help: "Vertex AI Imagen predict calls"},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		ImagenUpstreamLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name(core.MetricImagenUpstreamLatency),
				Help:    "Vertex AI Imagen predict latency (seconds)",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160, 300},
			},
			labelNames(core.MetricLabelEndpoint),
		),
		TranslateTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{Name: name(core.MetricTranslateTotal), Help: "Prompt translation attempts"},
			labelNames(core.MetricLabelProvider, core.MetricLabelStatus),
		),
		TokenFetchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{Name: name(core.MetricTokenFetchTotal), Help: "OAuth2 access token lookups"},
			labelNames(core.MetricLabelSource, core.MetricLabelStatus),
		),
		RateLimitTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{Name: name(core.MetricRateLimitTotal), Help: "Requests rejected by rate limit"},
			labelNames(core.MetricLabelEndpoint),
		),
	}
}

func (m *Metric) ObserveHttp(endpoint string, status int, d time.Duration) {
	if m == nil || m.HttpRequestsTotal == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.HttpRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metric) ObserveImagen(endpoint string, status int, d time.Duration) {
	if m == nil || m.ImagenRequestsTotal == nil {
		return
	}
	m.ImagenRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.ImagenUpstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metric) IncTranslate(provider, status string) {
	if m == nil || m.TranslateTotal == nil {
		return
	}
	m.TranslateTotal.WithLabelValues(provider, status).Inc()
}

func (m *Metric) IncTokenFetch(source, status string) {
	if m == nil || m.TokenFetchTotal == nil {
		return
	}
	m.TokenFetchTotal.WithLabelValues(source, status).Inc()
}

func (m *Metric) IncRateLimited(endpoint string) {
	if m == nil || m.RateLimitTotal == nil {
		return
	}
	m.RateLimitTotal.WithLabelValues(endpoint).Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
