package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/domain"
	"nomadeAdmin/internal/shared/normalization"
)

// EntityChangeHandler reacts to backend change events of one entity: it forwards the event to
// websocket subscribers, drops the entity's cached reference options and refreshes its list.
type EntityChangeHandler struct {
	entity         string
	kafkaTopic     string
	allowedActions map[string]struct{}
	lists          port.ListDirectory
	cache          *usecase.ReferenceCache
	broadcastUC    *usecase.BroadcastUseCase
	logger         *slog.Logger
}

func NewEntityChangeHandler(entity, kafkaTopic string, allowedActions []string, lists port.ListDirectory, cache *usecase.ReferenceCache, broadcastUC *usecase.BroadcastUseCase, logger *slog.Logger) *EntityChangeHandler {
	actionSet := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		if v := strings.TrimSpace(strings.ToLower(a)); v != "" {
			actionSet[v] = struct{}{}
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EntityChangeHandler{
		entity:         normalization.NormalizeEntity(entity),
		kafkaTopic:     kafkaTopic,
		allowedActions: actionSet,
		lists:          lists,
		cache:          cache,
		broadcastUC:    broadcastUC,
		logger:         logger,
	}
}

func (h *EntityChangeHandler) Topic() string { return h.kafkaTopic }

func (h *EntityChangeHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	if len(h.allowedActions) > 0 {
		if _, ok := h.allowedActions[strings.ToLower(msg.Action)]; !ok {
			return nil
		}
	}

	entityName := h.entity
	if entityName == "" {
		entityName = normalization.NormalizeEntity(msg.Entity)
	}
	if entityName == "" {
		return nil
	}
	// msg is shared by every handler of the Kafka topic; stamp a copy.
	forwarded := *msg
	forwarded.Entity = entityName
	if h.entity != "" || forwarded.Topic == "" {
		if topic := domain.Topic(entityName, msg.Action); topic != "" {
			forwarded.Topic = topic
		}
	}

	h.broadcastUC.Execute(ctx, &forwarded)
	h.cache.Invalidate(entityName)

	list, ok := h.lists.List(entityName)
	if !ok {
		return nil
	}
	h.logger.Info("entity-change refresh",
		slog.String("entity", entityName),
		slog.String("action", msg.Action),
		slog.String("resourceId", msg.ResourceID),
	)
	if err := list.Refresh(ctx); err != nil && !errors.Is(err, usecase.ErrSuperseded) {
		return err
	}
	return nil
}

var _ port.TopicHandler = (*EntityChangeHandler)(nil)
