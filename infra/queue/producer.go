package queue

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns nil when no broker is configured; a nil Producer
// drops messages.
func NewProducer(broker, topic, username, password string) *Producer {
	if broker == "" || topic == "" {
		return nil
	}

	transport := &kafka.Transport{}
	if username != "" {
		transport.SASL = plain.Mechanism{
			Username: username,
			Password: password,
		}
		transport.TLS = &tls.Config{}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			Transport:    transport,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (p *Producer) PublishMessage(ctx context.Context, key, value []byte) error {
	// kafka is optional, skip instead of failing the request
	if p == nil || p.writer == nil {
		logging.From(ctx).Debug("kafka producer not configured, skip publish", "key", string(key))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	}); err != nil {
		return goerr.Wrap(err, "failed to publish message", goerr.V("topic", p.writer.Topic))
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
