// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elearn-order-service/internal/config"
	"elearn-order-service/internal/domain/ports/adapter"
	"elearn-order-service/internal/domain/ports/repository"
	"elearn-order-service/internal/infra/blob"
	pg "elearn-order-service/internal/infra/db/postgres"
	"elearn-order-service/internal/infra/events"
	"elearn-order-service/internal/infra/logging"
	"elearn-order-service/internal/infra/metrics"
	"elearn-order-service/internal/infra/payment"
	red "elearn-order-service/internal/infra/redis"
	"elearn-order-service/internal/infra/sched"
	"elearn-order-service/internal/infra/web"
	"elearn-order-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Repositories ----
	orderRepo := pg.NewOrderRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	txManager := pg.NewTxManager(pool)

	var courses repository.CourseRepository = pg.NewCourseRepo(pool)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		courses = pg.NewCourseRepoCacheDecorator(courses, redisClient, cfg.Redis.TTL)
	} else {
		logger.Warn().Msg("redis.url not set; course cache disabled")
	}

	// ---- Event publisher (optional) ----
	var publisher adapter.EventPublisher
	if cfg.Events.URL != "" {
		rp, err := events.NewRabbitPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			logger.Fatal().Err(err).Msg("rabbitmq")
		}
		defer rp.Close()
		publisher = rp
	} else {
		logger.Warn().Msg("events.url not set; order events disabled")
	}

	// ---- Blob store ----
	blobs, err := blob.NewMinioStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("minio")
	}

	// ---- Gateway ----
	gateway := payment.NewEsewaGateway(cfg.Esewa)

	// ---- Use cases ----
	orderUC := usecase.NewOrderUseCase(orderRepo, courses, userRepo, txManager, gateway, publisher, logger)
	courseUC := usecase.NewCourseUseCase(courses, blobs, logger)
	userUC := usecase.NewUserUseCase(userRepo, logger)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := web.NewServer(orderUC, courseUC, userUC, auth, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Reconciler ----
	reconciler := sched.NewOrderReconciler(orderUC, orderRepo, cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
	go reconciler.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
