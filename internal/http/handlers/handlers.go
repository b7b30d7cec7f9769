package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/pribylovaa/register-service/internal/metrics"
	"github.com/pribylovaa/register-service/internal/models"
)

// Registrar: бизнес-логика регистрации (service.Service).
type Registrar interface {
	RegisterUser(ctx context.Context, email, password string) (*models.User, error)
}

// RateLimiter: лимитер попыток по адресу клиента (ratelimit.Limiter).
type RateLimiter interface {
	Allow(ctx context.Context, key string) error
}

// Pinger: проверка доступности хранилища для readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps: зависимости хендлеров. Metrics, Pinger и Ready опциональны.
type Deps struct {
	Service Registrar
	Limiter RateLimiter
	Metrics *metrics.Metrics
	Pinger  Pinger
	Ready   *atomic.Bool
}

// Handlers агрегирует зависимости HTTP-хендлеров.
type Handlers struct {
	svc     Registrar
	limiter RateLimiter
	metrics *metrics.Metrics
	pinger  Pinger
	ready   *atomic.Bool
}

func New(d Deps) *Handlers {
	ready := d.Ready
	if ready == nil {
		ready = &atomic.Bool{}
		ready.Store(true)
	}

	return &Handlers{
		svc:     d.Service,
		limiter: d.Limiter,
		metrics: d.Metrics,
		pinger:  d.Pinger,
		ready:   ready,
	}
}

// writeJSON: единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// clientAddr возвращает адрес клиента без порта.
// С trust_proxy RemoteAddr заранее переписывает chi middleware.RealIP.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
