package infrastructure

import (
	"context"
	"errors"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/domain"
)

// HandlerRegistry routes consumed broker messages to the handlers of their Kafka topic.
type HandlerRegistry struct {
	handlers map[string][]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string][]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.handlers[h.Topic()] = append(r.handlers[h.Topic()], h)
}

// Topics lists the Kafka topics with at least one handler.
func (r *HandlerRegistry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

// Dispatch runs every handler registered for kafkaTopic and joins their errors.
func (r *HandlerRegistry) Dispatch(ctx context.Context, kafkaTopic string, msg *domain.Message) error {
	var errs []error
	for _, handler := range r.handlers[kafkaTopic] {
		if err := handler.Handle(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
