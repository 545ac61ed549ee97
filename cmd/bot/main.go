package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/service_plan/internal/app"
	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/config"
	"github.com/Freeeeeet/service_plan/internal/controller"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/Freeeeeet/service_plan/internal/repository"
	"github.com/Freeeeeet/service_plan/internal/service"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/Freeeeeet/service_plan/internal/store"
	"github.com/Freeeeeet/service_plan/internal/topology"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting service plan bot",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreBackend),
		zap.String("timezone", cfg.Timezone))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := workspace.Deps{
		Topology:    topology.Default(),
		LoginDomain: cfg.LoginDomain,
		Location:    cfg.Location(),
		Clock:       clock.NewSystem(),
	}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Warn("Using in-memory store, bookings and accounts are lost on restart")
		deps.Store = store.NewMemory(deps.Clock)
		deps.Directory = session.NewMemoryDirectory()
		deps.Persister = session.NewMemoryPersister()

	default:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to create database pool", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		logger.Info("✅ Connected to database")

		if cfg.MigrationsOnStart {
			migrator, err := app.NewMigrator(pool, logger)
			if err != nil {
				logger.Fatal("Failed to create migrator", zap.Error(err))
			}
			if err := migrator.Run(ctx); err != nil {
				logger.Fatal("Failed to apply migrations", zap.Error(err))
			}
			migrator.Close()
		}

		pg := store.NewPostgres(
			repository.NewBookingRepository(pool),
			repository.NewListener(pool, repository.BookingsChannel),
			logger,
		)
		defer pg.Close()

		go func() {
			if err := pg.Run(ctx); err != nil {
				logger.Error("Booking listener stopped", zap.Error(err))
			}
		}()

		scheduler := app.NewScheduler(pg, cfg.ResyncInterval, logger)
		scheduler.Start(ctx)
		defer scheduler.Stop()

		deps.Store = pg
		deps.Directory = service.NewUserService(repository.NewUserRepository(pool), logger)
		deps.Persister = service.NewSessionService(repository.NewSessionRepository(pool), logger)
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(ctx, b, deps, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
