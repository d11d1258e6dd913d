package api

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/AmonKats-dev/action-log-app/config"
	"github.com/AmonKats-dev/action-log-app/infra/queue"
	"github.com/AmonKats-dev/action-log-app/internal/api/rest/handlers"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/AmonKats-dev/action-log-app/internal/services"
	"github.com/m-mizutani/goerr/v2"
)

// StartNotifier consumes action-log events and stores user notifications.
func StartNotifier(ctx context.Context, cfg config.Config) error {
	if !cfg.KafkaEnabled() {
		return goerr.New("notifier requires KAFKA_BROKER and KAFKA_TOPIC")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}

	svc := services.NewNotificationService(repository.NewNotificationRepository(db))
	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handlers.NewNotificationEventHandler(svc),
	)
	defer func() {
		if err := consumer.Close(); err != nil {
			logging.From(ctx).Warn("failed to close consumer", "error", err)
		}
	}()

	return consumer.Listen(ctx)
}
