package sink

import (
	"context"
	"fmt"
	"log/slog"

	"feedsink/internal/domain"
	"feedsink/internal/publisher"
)

// QueueSink publishes the aggregate document to a message exchange, routed
// by the resolved name.
type QueueSink struct {
	pub    Publisher
	logger *slog.Logger
}

func NewQueueSink(pub Publisher, logger *slog.Logger) *QueueSink {
	return &QueueSink{
		pub:    pub,
		logger: logger.With("sink", KindQueue.String()),
	}
}

// OpenQueue connects to the broker at cfg.Address and declares cfg.Exchange.
func OpenQueue(_ context.Context, cfg Config, logger *slog.Logger) (*QueueSink, error) {
	pub, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.Address,
		Exchange:   cfg.Exchange,
		QueueName:  cfg.Queue,
		BindingKey: cfg.BindingKey,
	}, logger)
	if err != nil {
		return nil, err
	}
	return NewQueueSink(pub, logger), nil
}

func (s *QueueSink) Write(ctx context.Context, routingKey string, run domain.Run, doc []byte) error {
	if err := s.pub.Publish(ctx, routingKey, run.ID, doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	return nil
}

func (s *QueueSink) Close() error {
	return s.pub.Close()
}
