// Package metrics 提供 Prometheus 指标集合与 HTTP 暴露
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 购物车变更计数（按操作）
	CartMutationsTotal *prometheus.CounterVec
	// 结账会话创建计数（按结果）
	CheckoutsTotal *prometheus.CounterVec
	// 结账会话创建耗时
	CheckoutDuration prometheus.Histogram
	// 活跃会话数
	ActiveSessions prometheus.Gauge
}

// New 创建并注册指标实例，每个实例使用独立 registry
func New(serviceName string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CartMutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: serviceName,
			Name:      "cart_mutations_total",
			Help:      "Total cart state transitions",
		}, []string{"op"}),
		CheckoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: serviceName,
			Name:      "checkouts_total",
			Help:      "Total checkout session attempts",
		}, []string{"result"}),
		CheckoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: serviceName,
			Name:      "checkout_duration_seconds",
			Help:      "Checkout session creation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: serviceName,
			Name:      "active_sessions",
			Help:      "Number of sessions held in memory",
		}),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CartMutationsTotal,
		m.CheckoutsTotal,
		m.CheckoutDuration,
		m.ActiveSessions,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler 返回 Prometheus 抓取端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 返回底层 registry（测试中读取指标）
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, route, status string, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordCartMutation 记录购物车变更
func (m *Metrics) RecordCartMutation(op string) {
	m.CartMutationsTotal.WithLabelValues(op).Inc()
}

// RecordCheckout 记录结账结果
func (m *Metrics) RecordCheckout(result string, seconds float64) {
	m.CheckoutsTotal.WithLabelValues(result).Inc()
	m.CheckoutDuration.Observe(seconds)
}

// SetActiveSessions 更新活跃会话数
func (m *Metrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}
