package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/interfaces"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// MessageReader is the part of *kafka.Reader the consumer loop uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

const defaultRetryDelay = 2 * time.Second

type KafkaConsumer struct {
	Reader      MessageReader
	Handler     interfaces.ConsumerHandler
	ServiceName string
	Topic       string
	// RetryDelay is the pause after a failed read before polling again.
	RetryDelay time.Duration
}

func NewKafkaConsumer(broker, topic, groupID, username, password string, handler interfaces.ConsumerHandler) *KafkaConsumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.SASLMechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
		dialer.TLS = &tls.Config{}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		Dialer:   dialer,
		MinBytes: 1,    // deliver single small events promptly
		MaxBytes: 10e6, //10MB
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: "Action Log Notifier",
		Topic:       topic,
		RetryDelay:  defaultRetryDelay,
	}
}

// Listen consumes until ctx is cancelled. Handler failures are logged and the
// message is committed anyway; notification writes are idempotent per event.
func (kc *KafkaConsumer) Listen(ctx context.Context) error {
	logger := logging.From(ctx).With("service", kc.ServiceName, "topic", kc.Topic)
	logger.Info("consumer started")

	for {
		msg, err := kc.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logger.Info("consumer stopped")
				return nil
			}
			logger.Error("failed to read message", "error", err, "retry_in", kc.retryDelay())
			select {
			case <-ctx.Done():
				logger.Info("consumer stopped")
				return nil
			case <-time.After(kc.retryDelay()):
			}
			continue
		}

		logger.Debug("received message",
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
		)

		if err := kc.Handler.HandleMessage(ctx, msg.Value); err != nil {
			var ge *goerr.Error
			if errors.As(err, &ge) {
				logger.Error("failed to handle message", "error", err, "values", ge.Values(), "offset", msg.Offset)
			} else {
				logger.Error("failed to handle message", "error", err, "offset", msg.Offset)
			}
		}
	}
}

func (kc *KafkaConsumer) retryDelay() time.Duration {
	if kc.RetryDelay <= 0 {
		return defaultRetryDelay
	}
	return kc.RetryDelay
}

func (kc *KafkaConsumer) Close() error {
	return kc.Reader.Close()
}
