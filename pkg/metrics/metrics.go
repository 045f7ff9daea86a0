package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-коллекторов сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	dbPoolOpenConns  *prometheus.GaugeVec
	dbPoolIdleConns  *prometheus.GaugeVec
	dbPoolInUseConns *prometheus.GaugeVec
}

// New создает и регистрирует коллекторы метрик
func New(serviceName string) *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),

		dbPoolOpenConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_open_connections",
			Help: "Number of open connections in the pool",
		}, []string{"service"}),

		dbPoolIdleConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections",
			Help: "Number of idle connections in the pool",
		}, []string{"service"}),

		dbPoolInUseConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
	}
}

// RecordHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) RecordHTTPRequest(service, method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// RecordDBQuery записывает метрики запроса к БД
func (m *Metrics) RecordDBQuery(service, operation, status string, duration time.Duration) {
	m.dbQueriesTotal.WithLabelValues(service, operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// SetDBPoolStats записывает состояние connection pool
func (m *Metrics) SetDBPoolStats(service string, open, idle, inUse int) {
	m.dbPoolOpenConns.WithLabelValues(service).Set(float64(open))
	m.dbPoolIdleConns.WithLabelValues(service).Set(float64(idle))
	m.dbPoolInUseConns.WithLabelValues(service).Set(float64(inUse))
}
