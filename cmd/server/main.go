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

	"github.com/Skotchmaster/product_api/internal/config"
	"github.com/Skotchmaster/product_api/internal/db"
	"github.com/Skotchmaster/product_api/internal/es"
	"github.com/Skotchmaster/product_api/internal/httpserver"
	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/mykafka"
	"github.com/Skotchmaster/product_api/internal/repo"
	"github.com/Skotchmaster/product_api/internal/service"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustValid(cfg)

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	ctx := logging.IntoContext(context.Background(), logger)

	if cfg.DBMigrate {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			log.Fatalf("migrations: %v", err)
		}
	}

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	events := mykafka.New(cfg.KafkaBrokers)

	var index es.Indexer = es.Nop{}
	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, es.Options{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			logger.Error("elasticsearch unavailable, search disabled", "error", err)
		} else {
			index = &es.ProductIndex{Client: client, Index: cfg.ESIndex}
		}
	}

	r := repo.New(gdb)
	tokens := &service.TokenService{Repo: r, Secret: []byte(cfg.TokenSecret), TTL: cfg.TokenTTL, Events: events}
	catalog := &service.CatalogService{Repo: r, Events: events, Index: index}

	e := httpserver.New(logger, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Events: events}, Tokens: tokens},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		Resolver:       tokens,
		Ready:          func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		ServiceName:    cfg.ServiceName,
		Version:        version,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "search", index.Enabled(), "kafka", len(cfg.KafkaBrokers) > 0)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		log.Println("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := events.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
