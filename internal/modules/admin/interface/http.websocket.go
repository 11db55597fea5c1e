package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/domain"
	"nomadeAdmin/internal/modules/admin/infrastructure"
	"nomadeAdmin/internal/shared/auth"
)

// checkOrigin accepts non-browser clients, same-origin pages and the configured origins.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	if strings.EqualFold(parsed.Host, r.Host) {
		return true
	}
	_, ok := h.allowedOrigins[strings.ToLower(parsed.Scheme+"://"+parsed.Host)]
	return ok
}

func originSet(origins []string) map[string]struct{} {
	set := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if trimmed := strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/")); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// streamEntity pushes the list states and toasts of one entity to a websocket client.
func (h *Handler) streamEntity(c echo.Context) error {
	binding, ok := h.registry.Binding(c.Param("entity"))
	if !ok {
		h.logger.Warn("admin ws entity not bound", slog.String("entity", c.Param("entity")))
		return echo.NewHTTPError(http.StatusNotFound, "unknown entity")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("admin ws upgrade failed", slog.String("entity", binding.Entity), slog.Any("error", err))
		return err
	}

	operatorID := ""
	if user, ok := auth.PrincipalFromContext(c.Request().Context()); ok {
		operatorID = firstNonBlank(user.ID, user.Email)
	}
	topics := buildTopics(binding.Entity, h.allowedActions)
	client := infrastructure.NewClient(h.hub, conn, operatorID, binding.Entity, 16, h.commands)
	client.BindContext(c.Request().Context())
	h.hub.AttachClient(client, topics)

	go client.WritePump()
	go client.ReadPump()

	client.SendDomainMessage(&domain.Message{
		Topic:    domain.TopicSystemConnected,
		Entity:   domain.SystemEntity,
		Action:   domain.ActionConnected,
		Metadata: map[string]string{"operatorId": operatorID, "entity": binding.Entity},
		Data: map[string]any{
			"entity":        binding.Entity,
			"allowedTopics": topics,
			"state":         binding.List.Snapshot(),
		},
		Timestamp: time.Now().UTC(),
	})
	h.logger.Info("admin ws connected", slog.String("entity", binding.Entity), slog.String("operatorId", operatorID), slog.String("ip", c.RealIP()))
	return nil
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func buildTopics(entity string, allowedActions []string) []string {
	topics := []string{domain.ListTopic(entity), domain.TopicToast}
	seen := map[string]struct{}{topics[0]: {}, topics[1]: {}}
	for _, action := range allowedActions {
		topic := domain.Topic(entity, strings.ToLower(action))
		if topic == "" {
			continue
		}
		if _, exists := seen[topic]; exists {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	return topics
}

type searchPayload struct {
	Term string `json:"term"`
}

type pagePayload struct {
	Page int `json:"page"`
}

// registerCommands wires the list commands a websocket client may send. Results reach the
// client through the list state stream.
func (h *Handler) registerCommands() {
	h.commands.Register("search", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		var payload searchPayload
		if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
			client.SendDomainMessage(infrastructure.ErrorMessage("invalid search payload"))
			return
		}
		h.runListCommand(client, func(list port.ListPage) error {
			return list.SetSearchTerm(ctx, strings.TrimSpace(payload.Term))
		})
	})
	h.commands.Register("page", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		var payload pagePayload
		if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
			client.SendDomainMessage(infrastructure.ErrorMessage("invalid page payload"))
			return
		}
		h.runListCommand(client, func(list port.ListPage) error {
			return list.SetPage(ctx, payload.Page)
		})
	})
	h.commands.Register("refresh", func(ctx context.Context, client *infrastructure.Client, _ infrastructure.Command) {
		h.runListCommand(client, func(list port.ListPage) error {
			return list.Refresh(ctx)
		})
	})
}

func (h *Handler) runListCommand(client *infrastructure.Client, run func(port.ListPage) error) {
	list, ok := h.registry.List(client.Entity())
	if !ok {
		client.SendDomainMessage(infrastructure.ErrorMessage("unknown entity " + client.Entity()))
		return
	}
	if err := run(list); err != nil && !errors.Is(err, usecase.ErrSuperseded) {
		client.SendDomainMessage(infrastructure.ErrorMessage(h.errors.Map(err).Message))
	}
}
