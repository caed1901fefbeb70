// Command notifier consumes domain events from RabbitMQ and e-mails the users
// they concern. Events of one user are handled in order by a single worker.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/service"
	"github.com/moneymanager/money-api/internal/infrastructure/config"
	"github.com/moneymanager/money-api/internal/infrastructure/notify"
	"github.com/moneymanager/money-api/internal/infrastructure/queue"
	"github.com/moneymanager/money-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: "notifier"})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("notifier stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.AMQP.URL == "" {
		return errors.New("AMQP_URL is required")
	}
	if cfg.SMTP.Host == "" {
		return errors.New("SMTP_HOST is required")
	}

	mailer := notify.NewEmailSender(notify.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log)

	dispatcher := queue.NewDispatcher(cfg.Notifier.Workers, service.NewNotificationService(mailer, log), log)
	dispatcher.Start(ctx)

	log.Info().
		Str("queue", cfg.AMQP.Queue).
		Int("workers", cfg.Notifier.Workers).
		Msg("consuming events")

	// Acking happens once the event sits in a worker's buffer.
	queue.ConsumeForever(ctx, cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, log,
		func(ctx context.Context, ev domain.Event) error {
			return dispatcher.Enqueue(ctx, ev)
		})

	dispatcher.Wait()
	log.Info().Msg("notifier drained")
	return nil
}
