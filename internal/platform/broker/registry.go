package broker

import (
	"context"
	"log/slog"
	"sync"

	"nomadeAdmin/internal/modules/admin/domain"
)

// Dispatcher routes a consumed message by the Kafka topic it was read from.
type Dispatcher interface {
	Dispatch(ctx context.Context, kafkaTopic string, msg *domain.Message) error
}

// StartKafkaConsumers launches one consumer per topic and returns a wait function that blocks
// until all of them stopped. Without brokers nothing is started.
func StartKafkaConsumers(
	ctx context.Context,
	dispatcher Dispatcher,
	brokers []string,
	groupID string,
	topics []string,
	logger *slog.Logger,
) (wait func()) {
	var wg sync.WaitGroup
	if len(brokers) == 0 || len(topics) == 0 {
		if logger != nil {
			logger.Info("kafka consumers disabled", slog.Int("brokers", len(brokers)), slog.Int("topics", len(topics)))
		}
		return wg.Wait
	}
	for _, topic := range topics {
		wg.Add(1)
		go func(tp string) {
			defer wg.Done()
			consumer := NewKafkaConsumer(brokers, groupID, tp, logger)
			_ = consumer.Consume(ctx, dispatcher.Dispatch)
		}(topic)
	}
	return wg.Wait
}
