package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса в собственном registry
type Metrics struct {
	service  string
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBConnections   *prometheus.GaugeVec

	BookingsCreated      *prometheus.CounterVec
	BookingConflicts     *prometheus.CounterVec
	BookingCancellations *prometheus.CounterVec
	BookingCompletions   *prometheus.CounterVec
	SweeperRuns          *prometheus.CounterVec
	SweeperItems         *prometheus.CounterVec
}

// New создает и регистрирует все метрики сервиса
func New(serviceName string) *Metrics {
	m := &Metrics{
		service:  serviceName,
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation", "status"}),

		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),

		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created, by initial status",
		}, []string{"service", "status"}),

		BookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Booking operations rejected because the slot was taken",
		}, []string{"service", "operation"}),

		BookingCancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_cancellations_total",
			Help: "Booking cancellations, by initiator and abuse flag",
		}, []string{"service", "initiator", "abuse"}),

		BookingCompletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_completions_total",
			Help: "Booking completions, by outcome status",
		}, []string{"service", "status"}),

		SweeperRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "completion_sweeper_runs_total",
			Help: "Completion sweeper runs",
		}, []string{"service"}),

		SweeperItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "completion_sweeper_items_total",
			Help: "Bookings processed by the completion sweeper, by result",
		}, []string{"service", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBConnections,
		m.BookingsCreated,
		m.BookingConflicts,
		m.BookingCancellations,
		m.BookingCompletions,
		m.SweeperRuns,
		m.SweeperItems,
	)

	return m
}

// Handler возвращает HTTP handler для эндпоинта /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен для тестов и дополнительных коллекторов
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ServiceName имя сервиса, которым помечаются все метрики
func (m *Metrics) ServiceName() string {
	return m.service
}

// BookingCreated учитывает созданное бронирование
func (m *Metrics) BookingCreated(status string) {
	m.BookingsCreated.WithLabelValues(m.service, status).Inc()
}

// BookingConflict учитывает проигранную гонку за слот
func (m *Metrics) BookingConflict(operation string) {
	m.BookingConflicts.WithLabelValues(m.service, operation).Inc()
}

// BookingCancelled учитывает отмену
func (m *Metrics) BookingCancelled(initiator string, abuse bool) {
	m.BookingCancellations.WithLabelValues(m.service, initiator, strconv.FormatBool(abuse)).Inc()
}

// BookingCompleted учитывает завершение с указанным итоговым статусом
func (m *Metrics) BookingCompleted(status string) {
	m.BookingCompletions.WithLabelValues(m.service, status).Inc()
}

// SweeperRun учитывает прогон sweeper с количеством успешных и неуспешных элементов
func (m *Metrics) SweeperRun(completed, failed int) {
	m.SweeperRuns.WithLabelValues(m.service).Inc()
	m.SweeperItems.WithLabelValues(m.service, "completed").Add(float64(completed))
	m.SweeperItems.WithLabelValues(m.service, "failed").Add(float64(failed))
}
