package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	BookingsCreatedTotal  *prometheus.CounterVec
	BookingConflictsTotal *prometheus.CounterVec
	CasesCreatedTotal     *prometheus.CounterVec
}

// New создает и регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),
		BookingsCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "consultation_bookings_created_total",
			Help:        "Number of consultation bookings created",
			ConstLabels: constLabels,
		}, []string{}),
		BookingConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "consultation_booking_conflicts_total",
			Help:        "Number of booking attempts rejected or retried because of a conflict",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		CasesCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "consultation_cases_created_total",
			Help:        "Number of consultation cases created",
			ConstLabels: constLabels,
		}, []string{"case_type"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.BookingsCreatedTotal,
		m.BookingConflictsTotal,
		m.CasesCreatedTotal,
	)

	return m
}

// IncBookingCreated увеличивает счетчик созданных бронирований (nil-safe)
func (m *Metrics) IncBookingCreated() {
	if m == nil {
		return
	}
	m.BookingsCreatedTotal.WithLabelValues().Inc()
}

// IncBookingConflict увеличивает счетчик конфликтов бронирования (nil-safe)
func (m *Metrics) IncBookingConflict(reason string) {
	if m == nil {
		return
	}
	m.BookingConflictsTotal.WithLabelValues(reason).Inc()
}

// IncCaseCreated увеличивает счетчик созданных обращений (nil-safe)
func (m *Metrics) IncCaseCreated(caseType string) {
	if m == nil {
		return
	}
	m.CasesCreatedTotal.WithLabelValues(caseType).Inc()
}
