package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IRFXN3671/TaskFlow/internal/config"
	"github.com/IRFXN3671/TaskFlow/internal/httpapi"
	"github.com/IRFXN3671/TaskFlow/internal/logging"
	"github.com/IRFXN3671/TaskFlow/internal/mail"
	"github.com/IRFXN3671/TaskFlow/internal/store/postgres"
	"github.com/IRFXN3671/TaskFlow/internal/telemetry"
	"github.com/IRFXN3671/TaskFlow/internal/token"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogFile)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	shutdownTelemetry := telemetry.Setup("taskflow")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	var mailer httpapi.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPSender)
	}

	st := postgres.NewStore(pool)
	codec := token.NewCodec(cfg.JWTSecret, cfg.JWTExpiry)
	handler := httpapi.NewHandler(st, codec, mailer, logger)
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitPerSecond,
		Burst:             cfg.RateLimitBurst,
	})

	root := otelhttp.NewHandler(httpapi.LoggingMiddleware(logger, limiter.Middleware(handler.Routes())), "taskflow")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("taskflow listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
}
