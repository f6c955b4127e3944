package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openpos/pos-admin/internal/config"
	"github.com/openpos/pos-admin/internal/database"
	"github.com/openpos/pos-admin/internal/handler"
	"github.com/openpos/pos-admin/internal/middleware"
	"github.com/openpos/pos-admin/internal/queue"
	"github.com/openpos/pos-admin/internal/repository"
	"github.com/openpos/pos-admin/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	tenants := repository.NewTenantRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	items := repository.NewItemRepo(db)
	modifiers := repository.NewModifierRepo(db)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: without it the server runs with no response cache
	// and no rate limiting, which is fine for local development.
	if rdb := config.NewRedisClient(); rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			e.Use(middleware.NewTokenBucket(rlCfg, rdb))
		}
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	} else {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tenants, tokens), cfg.JWTSecret)
	router.RegisterTenant(e, handler.NewTenantHandler(tenants), cfg.JWTSecret)
	router.RegisterStaff(e, handler.NewUserHandler(cfg, users), cfg.JWTSecret)
	router.RegisterMenu(e,
		handler.NewCategoryHandler(categories),
		handler.NewItemHandler(items),
		handler.NewModifierHandler(modifiers),
		cfg.JWTSecret)

	// Catalog audit trail: consume catalog.changed events in the background.
	go func() {
		if err := queue.StartCatalogConsumer(); err != nil {
			log.Printf("catalog consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
