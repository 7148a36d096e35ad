package main // server entry point

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-seat-reservation/internal/booking"
    "github.com/iliyamo/train-seat-reservation/internal/config"
    "github.com/iliyamo/train-seat-reservation/internal/database"
    "github.com/iliyamo/train-seat-reservation/internal/handler"
    "github.com/iliyamo/train-seat-reservation/internal/middleware"
    "github.com/iliyamo/train-seat-reservation/internal/queue"
    "github.com/iliyamo/train-seat-reservation/internal/repository"
    "github.com/iliyamo/train-seat-reservation/internal/router"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer func() { _ = db.Close() }()

    // Redis is optional: a nil client turns the rate limiter and the
    // response cache into pass-throughs.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and response cache disabled")
    }

    // Repositories.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    schedules := repository.NewScheduleRepo(db)
    capacities := repository.NewCapacityRepo(db)
    tickets := repository.NewTicketRepo(db)

    // Booking core: inventory over the versioned counters, ticket
    // ledger, fallback resolver and occupancy reporting, coordinated
    // behind one facade.
    inventory := booking.NewInventory(schedules, capacities)
    ledger := booking.NewLedger(tickets, schedules, inventory)
    fallback := booking.NewFallbackResolver(schedules, capacities)
    occupancy := booking.NewOccupancyTracker(inventory)
    coordinator := booking.NewCoordinator(inventory, ledger, fallback, occupancy, schedules)

    // Handlers.
    authH := handler.NewAuthHandler(cfg, users, tokens)
    bookingH := handler.NewBookingHandler(coordinator, tickets, schedules)
    operatorH := handler.NewOperatorHandler(schedules, capacities, tickets)
    publicH := &handler.PublicHandler{Schedules: schedules, Capacities: capacities, Occupancy: occupancy}

    // Ticket event consumer writes logs/ticketing.log; it reconnects
    // on broker failures and never takes the API down with it.
    go func() {
        if err := queue.StartTicketConsumer(); err != nil {
            log.Printf("ticket consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true

    limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, cacheMW)
    router.RegisterPassenger(e, bookingH, cfg.JWTSecret, limitMW)
    router.RegisterOperator(e, operatorH, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
