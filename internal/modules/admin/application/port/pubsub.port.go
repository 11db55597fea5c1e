package port

import (
	"context"

	"nomadeAdmin/internal/modules/admin/domain"
)

// Broadcaster pushes messages to every websocket subscriber of the message topic.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler reacts to change events consumed from the broker.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
