package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/api"
	"github.com/moneymanager/money-api/internal/api/handler"
	"github.com/moneymanager/money-api/internal/core/ports"
	"github.com/moneymanager/money-api/internal/core/service"
	"github.com/moneymanager/money-api/internal/infrastructure/config"
	"github.com/moneymanager/money-api/internal/infrastructure/db"
	"github.com/moneymanager/money-api/internal/infrastructure/db/redis"
	"github.com/moneymanager/money-api/internal/infrastructure/queue"
	"github.com/moneymanager/money-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Money Manager API
// @version                     1.0
// @description                 Personal finance tracker: incomes, expenses and dashboards per user.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// .env is optional; real environments inject variables directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: "api"})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	storage, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := storage.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}()
	log.Info().Str("driver", storage.Driver).Msg("storage ready")

	checks := map[string]handler.Check{"database": storage.Ping}

	var cache ports.DashboardCache = redis.NopDashboardCache{}
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()
		cache = redis.NewDashboardCache(client, cfg.Redis.CacheTTL)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("dashboard cache enabled")
	}

	var events ports.EventPublisher = queue.NopPublisher{Log: log}
	if cfg.AMQP.URL != "" {
		client, err := queue.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, log)
		if err != nil {
			return err
		}
		defer client.Close()
		events = client
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("event publishing enabled")
	}

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewJWTTokenService(cfg.JWTSecret, cfg.JWTTTL)

	e := api.NewRouter(api.Deps{
		BasePath:    cfg.BasePath,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
		Auth:        service.NewAuthService(storage.Users, hasher, tokens, events, log),
		Tokens:      tokens,
		Incomes:     service.NewTransactionService(storage.Incomes, storage.Users, cache, events, log),
		Expenses:    service.NewTransactionService(storage.Expenses, storage.Users, cache, events, log),
		Dashboard:   service.NewDashboardService(storage.Incomes, storage.Expenses, cache, log),
		Profile:     service.NewProfileService(storage.Users, hasher, events, log),
		Checks:      checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("base_path", cfg.BasePath).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
