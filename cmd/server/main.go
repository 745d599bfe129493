package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/JMPenyaP/fixer-back-end/internal/config"
	pkgdb "github.com/JMPenyaP/fixer-back-end/internal/db"
	"github.com/JMPenyaP/fixer-back-end/internal/httpserver"
	"github.com/JMPenyaP/fixer-back-end/internal/logging"
	"github.com/JMPenyaP/fixer-back-end/internal/middleware/auth"
	loggingmw "github.com/JMPenyaP/fixer-back-end/internal/middleware/logging"
	"github.com/JMPenyaP/fixer-back-end/internal/middleware/metrics"
	"github.com/JMPenyaP/fixer-back-end/internal/repo"
	"github.com/JMPenyaP/fixer-back-end/internal/service"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	if cfg.AutoMigrate {
		if err := pkgdb.Migrate(ctx, db); err != nil {
			cancel()
			log.Fatalf("db migrate: %v", err)
		}
	}
	cancel()

	store := &repo.GormRepo{DB: db}
	svc := service.NewMetricsService(store, loc)
	handler := &httpserver.DashboardHTTP{Svc: svc}
	httpMetrics := metrics.New(cfg.ServiceName)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(httpMetrics.Middleware())
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		DashboardHandler: handler,
		Guard:            auth.NewGuard(cfg.JWTAccessSecret),
		DB:               store,
		Metrics:          httpMetrics.Handler(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("dashboard listening", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("dashboard stopped")
}
