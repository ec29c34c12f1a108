// Package metrics 提供对外部接口调用和报告解码的 Prometheus 指标。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 上游名称
const (
	UpstreamLLM       = "llm"
	UpstreamChart     = "chart"
	UpstreamAssistant = "assistant"
	UpstreamGeocoder  = "geocoder"
)

// Manager 管理本服务的全部指标
type Manager struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	reportDecode     *prometheus.CounterVec
}

// Option 配置 Manager
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace 设置指标命名空间
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets 设置延迟直方图的桶
func WithBuckets(b []float64) Option {
	return func(o *options) { o.buckets = b }
}

// NewManager 创建使用独立 registry 的指标管理器
func NewManager(opts ...Option) *Manager {
	o := &options{namespace: "astro", buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(o)
	}

	m := &Manager{registry: prometheus.NewRegistry()}
	m.upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: o.namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests sent to external APIs by outcome.",
	}, []string{"upstream", "outcome"})
	m.upstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: o.namespace,
		Name:      "upstream_latency_seconds",
		Help:      "Latency of external API calls.",
		Buckets:   o.buckets,
	}, []string{"upstream"})
	m.reportDecode = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: o.namespace,
		Name:      "report_decode_total",
		Help:      "Compatibility report decode attempts by outcome.",
	}, []string{"outcome"})

	m.registry.MustRegister(m.upstreamRequests, m.upstreamLatency, m.reportDecode)
	return m
}

// ObserveUpstream 记录一次外部调用，m 为 nil 时什么都不做
func (m *Manager) ObserveUpstream(upstream string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.upstreamRequests.WithLabelValues(upstream, outcome).Inc()
	m.upstreamLatency.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
}

// ObserveDecode 记录一次报告解码结果
func (m *Manager) ObserveDecode(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.reportDecode.WithLabelValues(outcome).Inc()
}

// Registry 返回内部 registry，用于测试或自定义导出
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 /metrics 处理器
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
