package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"nomadeAdmin/internal/modules/admin/domain"
	"nomadeAdmin/internal/shared/normalization"
)

// KafkaConsumer reads change events from one topic of the booking backend.
type KafkaConsumer struct {
	reader *kafka.Reader
	topic  string
	logger *slog.Logger
}

func NewKafkaConsumer(brokers []string, groupID, topic string, logger *slog.Logger) *KafkaConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
		topic:  topic,
		logger: logger.With(slog.String("component", "kafka"), slog.String("topic", topic)),
	}
}

// Consume hands every decoded message to handler until ctx is done. Handler errors are
// logged and do not stop consumption.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(ctx context.Context, kafkaTopic string, msg *domain.Message) error) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Debug("kafka reader close", slog.Any("error", err))
		}
	}()

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			c.logger.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		msg := decodeMessage(m)
		c.logger.Info("kafka message consumed",
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", msg.Entity),
			slog.String("action", msg.Action),
			slog.String("resourceId", msg.ResourceID),
		)
		if err := handler(ctx, m.Topic, msg); err != nil {
			c.logger.Warn("kafka handler error", slog.String("entity", msg.Entity), slog.Any("error", err))
		}
	}
}

type rawEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	ID         string            `json:"id"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       any               `json:"data"`
}

func decodeMessage(m kafka.Message) *domain.Message {
	msg := &domain.Message{Timestamp: m.Time.UTC()}
	if m.Time.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	var event rawEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		entity, action := inferEntityActionFromTopic(m.Topic)
		msg.Entity = entity
		msg.Action = action
		msg.Data = string(m.Value)
		return msg
	}

	entity, action := inferEntityActionFromTopic(m.Topic)
	msg.Entity = normalization.NormalizeEntity(firstNonEmpty(event.Entity, entity))
	msg.Action = strings.ToLower(firstNonEmpty(event.Action, action))
	msg.ResourceID = firstNonEmpty(event.ResourceID, event.ID)
	msg.Metadata = event.Metadata
	msg.Data = event.Data
	msg.Topic = event.Topic
	return msg
}

// inferEntityActionFromTopic reads "<prefix>.<entity>.<action>" topic names. A topic without
// a dot names the entity only.
func inferEntityActionFromTopic(topic string) (string, string) {
	parts := strings.Split(strings.TrimSpace(topic), ".")
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return normalization.NormalizeEntity(entity), strings.ToLower(action)
		}
	}
	if entity := strings.TrimSpace(parts[len(parts)-1]); entity != "" {
		return normalization.NormalizeEntity(entity), "unknown"
	}
	return "", "unknown"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
