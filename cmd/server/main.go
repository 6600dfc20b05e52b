package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/hbnb/internal/config"
	"github.com/iliyamo/hbnb/internal/database"
	"github.com/iliyamo/hbnb/internal/handler"
	"github.com/iliyamo/hbnb/internal/logging"
	"github.com/iliyamo/hbnb/internal/queue"
	"github.com/iliyamo/hbnb/internal/repository"
	"github.com/iliyamo/hbnb/internal/router"
	"github.com/iliyamo/hbnb/internal/service"
)

func main() {
	cfg, err := config.Load()
	logging.Setup(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db := openStore(cfg)
	if db != nil {
		defer db.Close()
	}

	// Redis is optional: without it rate limiting and caching are disabled.
	var rdb *redis.Client
	if cfg.Cache.Enabled || cfg.RateLimit.Enabled || cfg.LoginRateLimit.Enabled {
		rdb, err = config.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without rate limit and cache")
		} else {
			defer rdb.Close()
		}
	}

	var events queue.Publisher = queue.Discard{}
	if cfg.EventsEnabled {
		pub := queue.NewAMQPPublisher(cfg.AMQPURL)
		defer pub.Close()
		events = pub
		go queue.StartActivityConsumer(ctx, cfg.AMQPURL, cfg.ActivityLogDir, logging.Component("activity"))
	}

	facade := service.NewFacade(store, service.Options{
		Events:     events,
		BcryptCost: cfg.BcryptCost,
		Logger:     logging.Component("service"),
	})

	if cfg.AdminEmail != "" {
		bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		admin, err := facade.EnsureAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminFirstName, cfg.AdminLastName)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("bootstrap admin failed")
		}
		log.Info().Str("user_id", admin.ID).Msg("admin account ready")
	}

	deps := router.Deps{
		Facade:         facade,
		JWTSecret:      cfg.JWTSecret,
		AccessTTL:      cfg.AccessTTL,
		Logger:         logging.Component("http"),
		Cache:          cfg.Cache,
		RateLimit:      cfg.RateLimit,
		LoginRateLimit: cfg.LoginRateLimit,
		Redis:          rdb,
		DB:             db,
	}
	e := router.New(deps)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("storage", cfg.Storage).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openStore returns the repositories for the configured driver. The pool is
// nil for memory storage.
func openStore(cfg config.Config) (*repository.Store, handlerDB) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("memory storage: data is lost on restart")
		return repository.NewMemoryStore(), nil
	}

	sqlDB, err := database.Open(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	gdb, err := database.OpenGorm(sqlDB, cfg.LogLevel == "debug")
	if err != nil {
		log.Fatal().Err(err).Msg("gorm init failed")
	}
	if err := database.AutoMigrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}
	return repository.NewGormStore(gdb), sqlDB
}

// handlerDB is the subset of *sql.DB main needs: readiness pings and Close.
type handlerDB interface {
	handler.Pinger
	Close() error
}
