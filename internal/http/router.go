package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/register-service/internal/http/handlers"
	"github.com/pribylovaa/register-service/internal/http/middleware"
	"github.com/pribylovaa/register-service/internal/metrics"
)

// Options: параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// TrustProxy включает chi RealIP: адрес клиента берётся из X-Real-IP/X-Forwarded-For.
	TrustProxy bool
	Metrics    *metrics.Metrics
	// Gatherer: источник для /metrics; nil: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),   // безопасно ловим паники
		middleware.RequestID(), // формируем/прокидываем X-Request-Id (до логирования!)
	)
	if opts.TrustProxy {
		root.Use(chimw.RealIP)
	}
	root.Use(
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(opts.Metrics),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	root.Get("/livez", h.Livez)
	root.Get("/healthz", h.Healthz)
	root.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	root.Route("/api", func(r chi.Router) {
		registerRoutes(r, h)
	})

	return root
}

// registerRoutes: единая точка регистрации REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Post("/auth/register", h.RegisterUser)
}
