package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/register-service/internal/config"
	rshttp "github.com/pribylovaa/register-service/internal/http"
	"github.com/pribylovaa/register-service/internal/http/handlers"
	"github.com/pribylovaa/register-service/internal/janitor"
	"github.com/pribylovaa/register-service/internal/metrics"
	"github.com/pribylovaa/register-service/internal/password"
	"github.com/pribylovaa/register-service/internal/ratelimit"
	"github.com/pribylovaa/register-service/internal/service"
	"github.com/pribylovaa/register-service/internal/storage/postgres"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting register-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	str, err := postgres.New(rootCtx, cfg.DB)
	if err != nil {
		log.Error("storage_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer str.Close()

	log.Info("storage_initialized")

	if cfg.DB.AutoMigrate {
		if err := str.Migrate(rootCtx); err != nil {
			log.Error("migrations_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		log.Info("migrations_applied")
	}

	hasher, err := password.NewBcrypt(cfg.Password.BcryptCost)
	if err != nil {
		log.Error("hasher_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	limitStore := ratelimit.NewMemoryStore()
	limiter := ratelimit.New(limitStore, cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)

	svc := service.New(str, hasher)

	var ready atomic.Bool // false: not ready; true: ready

	h := handlers.New(handlers.Deps{
		Service: svc,
		Limiter: limiter,
		Metrics: m,
		Pinger:  str,
		Ready:   &ready,
	})

	router := rshttp.NewRouter(h, rshttp.Options{
		Logger:     log,
		Timeout:    cfg.Timeouts.Service,
		TrustProxy: cfg.HTTP.TrustProxy,
		Metrics:    m,
	})

	jctx, jcancel := context.WithCancel(rootCtx)
	jn := janitor.New(log)
	jn.Start(jctx, "ratelimit_sweep", cfg.RateLimit.SweepInterval, janitor.SweepLimiter(limitStore, m, log))
	jn.Start(jctx, "sessions_cleanup", cfg.Sessions.JanitorPeriod, janitor.DeleteExpiredSessions(str, m, log))

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		jcancel()
		jn.Wait()
		str.Close()
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	ready.Store(true)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	jcancel()
	jn.Wait()

	log.Info("service_stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
