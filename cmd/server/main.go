package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vogiaan1904/ticketbottle-scangate/config"
	httpDelivery "github.com/vogiaan1904/ticketbottle-scangate/internal/delivery/http"
	"github.com/vogiaan1904/ticketbottle-scangate/internal/delivery/kafka/producer"
	infraRedis "github.com/vogiaan1904/ticketbottle-scangate/internal/infra/redis"
	repo "github.com/vogiaan1904/ticketbottle-scangate/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-scangate/internal/repository/ticketstore"
	"github.com/vogiaan1904/ticketbottle-scangate/internal/service"
	pkgKafka "github.com/vogiaan1904/ticketbottle-scangate/pkg/kafka"
	pkgLog "github.com/vogiaan1904/ticketbottle-scangate/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})

	redisCli, err := infraRedis.Connect(ctx, cfg.Redis)
	if err != nil {
		l.Fatalf(ctx, "Failed to connect to Redis: %v", err)
	}
	defer infraRedis.Disconnect(redisCli)

	ticketCache := repo.NewRedisTicketCache(redisCli, cfg.Cache.TicketTTL, l)

	// Scan audit producer; disabled cleanly when Kafka is off.
	prod := producer.NewNoopProducer()
	if cfg.Kafka.Enabled {
		kSyncProd, err := pkgKafka.NewSyncProducer(ctx, pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
		}, l)
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		prod = producer.NewProducer(kSyncProd, l)
	}
	defer func() {
		if err := prod.Close(); err != nil {
			l.Errorf(ctx, "Failed to close Kafka producer: %v", err)
		}
	}()

	store := ticketstore.NewHTTPRepository(ticketstore.Config{
		BaseURL: cfg.TicketStore.BaseURL,
		APIKey:  cfg.TicketStore.APIKey,
		Timeout: cfg.TicketStore.Timeout,
	}, l)

	ticketSvc := service.NewTicketService(store, ticketCache, prod, l)
	authSvc := service.NewDeviceAuthService(cfg.JWT, l)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := httpDelivery.NewHTTPHandler(ticketSvc, authSvc, l)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		l.Infof(ctx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatalf(ctx, "Failed to serve HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info(ctx, "Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Errorf(ctx, "Failed to shut down HTTP server: %v", err)
	}

	l.Info(ctx, "Server exited")
}
