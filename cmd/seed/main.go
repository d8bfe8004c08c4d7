package main

import (
	"context"
	"flag"
	"log"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Skotchmaster/product_api/internal/config"
	"github.com/Skotchmaster/product_api/internal/db"
	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/repo"
	"github.com/Skotchmaster/product_api/internal/seed"
	"github.com/Skotchmaster/product_api/internal/service"
)

func main() {
	count := flag.Int("n", seed.DefaultCount, "number of products to insert")
	fakeSeed := flag.Uint64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "cmd", "seed")
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
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	catalog := &service.CatalogService{Repo: repo.New(gdb)}
	if _, err := seed.Products(ctx, catalog, gofakeit.New(*fakeSeed), *count); err != nil {
		log.Fatalf("seed: %v", err)
	}
}
