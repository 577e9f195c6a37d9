package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/truongnx/gearstore/internal/config"
	"github.com/truongnx/gearstore/internal/es"
	"github.com/truongnx/gearstore/internal/httpserver"
	"github.com/truongnx/gearstore/internal/logging"
	"github.com/truongnx/gearstore/internal/middleware"
	"github.com/truongnx/gearstore/internal/mykafka"
	"github.com/truongnx/gearstore/internal/repo"
	"github.com/truongnx/gearstore/internal/service"
	"github.com/truongnx/gearstore/pkg/db"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	gormDB, err := db.Open(ctx, cfg.DatabaseDSN())
	cancel()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := config.Migrate(gormDB); err != nil {
		log.Fatalf("database migration error: %v", err)
	}

	producer := mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})

	var esClient *elasticsearch.Client
	if cfg.ES_URL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			// Search is optional: the store works without it, so only warn.
			logger.Warn("elasticsearch unavailable, search disabled", "error", err)
			esClient = nil
		}
	}

	jwtSecret := []byte(cfg.JWT_SECRET)
	repository := &repo.GormRepo{DB: gormDB}

	carts := &service.CartService{Repo: repository, Events: producer}
	checkout := &service.CheckoutService{DB: gormDB, Repo: repository, Events: producer}
	orders := &service.OrderService{DB: gormDB, Repo: repository, Events: producer}
	catalog := &service.CatalogService{Repo: repository, Events: producer, ES: esClient, Index: cfg.ES_INDEX}
	taxonomy := &service.TaxonomyService{Repo: repository, Events: producer}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:        gormDB,
		JWTSecret: jwtSecret,
		Auth:      &httpserver.AuthHTTP{DB: gormDB, JWTSecret: jwtSecret, Carts: carts, Events: producer},
		Cart:      &httpserver.CartHTTP{Svc: carts},
		Product:   &httpserver.ProductHTTP{Svc: catalog},
		Taxonomy:  &httpserver.TaxonomyHTTP{Svc: taxonomy},
		Order:     &httpserver.OrderHTTP{Checkout: checkout, Svc: orders},
		Search:    &httpserver.SearchHTTP{ES: esClient, Index: cfg.ES_INDEX},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
