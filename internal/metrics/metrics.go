// metrics описывает Prometheus-метрики сервиса.
// Все методы безопасны для nil *Metrics (метрики выключены).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "register_service"

// Исходы регистрации (label outcome).
const (
	OutcomeCreated     = "created"
	OutcomeInvalid     = "invalid"
	OutcomeConflict    = "conflict"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

type Metrics struct {
	registrations *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	limiterSwept  prometheus.Counter
	sessionsSwept prometheus.Counter
}

// New создаёт и регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		limiterSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_records_swept_total",
			Help:      "Expired rate limit records removed by the janitor.",
		}),
		sessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_deleted_total",
			Help:      "Expired sessions deleted by the janitor.",
		}),
	}

	reg.MustRegister(m.registrations, m.httpDuration, m.limiterSwept, m.sessionsSwept)

	return m
}

// Registration засчитывает исход попытки регистрации.
func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

// ObserveHTTP фиксирует длительность обработки запроса.
func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

// LimiterSwept засчитывает записи лимитера, удалённые janitor-ом.
func (m *Metrics) LimiterSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.limiterSwept.Add(float64(n))
}

// SessionsSwept засчитывает удалённые просроченные сессии.
func (m *Metrics) SessionsSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsSwept.Add(float64(n))
}
