package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/broadcast"
	"github.com/iliyamo/appointment-booking/internal/config"
	"github.com/iliyamo/appointment-booking/internal/database"
	"github.com/iliyamo/appointment-booking/internal/handler"
	"github.com/iliyamo/appointment-booking/internal/middleware"
	"github.com/iliyamo/appointment-booking/internal/queue"
	"github.com/iliyamo/appointment-booking/internal/repository"
	"github.com/iliyamo/appointment-booking/internal/router"
	"github.com/iliyamo/appointment-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	hub := broadcast.NewHub()
	fanout := service.NewEventFanout(hub, queue.NewPublisher())

	store := repository.NewStore(db)
	bookings := service.NewBookingService(store, fanout)
	slots := service.NewSlotService(store, fanout)
	queries := service.NewQueryService(store)

	// Append committed change events to the audit log via the broker.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	// Every committed change bumps the cache version synchronously, so
	// cached calendar and slot responses never outlive the state they
	// were built from, even under a burst of commits.
	if rdb != nil && cacheCfg.Enabled {
		fanout.OnEvent(func() {
			middleware.BumpVersion(context.Background(), rdb, cacheCfg)
		})
	}

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterPublic(e,
		handler.NewPublicHandler(queries),
		handler.NewBookingHandler(bookings),
		handler.NewEventsHandler(hub),
		rdb, cacheCfg, rateCfg)
	router.RegisterAuth(e,
		handler.NewAuthHandler(cfg, repository.NewAdminRepo(db), repository.NewTokenRepo(db)),
		cfg.JWTSecret)
	router.RegisterAdmin(e,
		handler.NewAdminSlotHandler(slots),
		handler.NewAdminBookingHandler(queries, bookings),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
