package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"nomadeAdmin/internal/modules/admin/domain"
)

// Command is a client-to-server websocket instruction.
type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c Command) actionKey() string {
	return normalizeAction(c.Action)
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

// CommandProcessor dispatches client commands. subscribe, unsubscribe and ping are built in;
// other actions are registered by the transport layer and run with a timeout.
type CommandProcessor struct {
	hub      *Hub
	handlers map[string]CommandHandler
	async    map[string]struct{}
	timeout  time.Duration
}

func NewCommandProcessor(hub *Hub) *CommandProcessor {
	processor := &CommandProcessor{
		hub:      hub,
		handlers: make(map[string]CommandHandler),
		async:    make(map[string]struct{}),
		timeout:  10 * time.Second,
	}
	processor.register("subscribe", processor.handleSubscribe, false)
	processor.register("unsubscribe", processor.handleUnsubscribe, false)
	processor.register("ping", processor.handlePing, false)
	return processor
}

// Register adds a handler that runs in its own goroutine under the processor timeout.
func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	p.register(action, handler, true)
}

func (p *CommandProcessor) register(action string, handler CommandHandler, async bool) {
	if handler == nil {
		return
	}
	key := normalizeAction(action)
	if key == "" {
		return
	}
	p.handlers[key] = handler
	if async {
		p.async[key] = struct{}{}
	}
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}

	action := cmd.actionKey()
	handler, ok := p.handlers[action]
	if !ok {
		client.logger.Debug("ws command ignored", slog.String("operatorId", client.operatorID), slog.String("action", action))
		client.SendDomainMessage(errorMessage("unknown action " + action))
		return
	}

	base := client.Context()
	if _, async := p.async[action]; !async {
		handler(base, client, cmd)
		return
	}

	ctx, cancel := context.WithTimeout(base, p.timeout)
	go func() {
		defer cancel()
		handler(ctx, client, cmd)
	}()
}

func (p *CommandProcessor) handleSubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.subscribe(client, topic)
	client.logger.Debug("ws subscribe", slog.String("operatorId", client.operatorID), slog.String("topic", topic))
}

func (p *CommandProcessor) handleUnsubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.unsubscribe(client, topic)
}

func (p *CommandProcessor) handlePing(_ context.Context, client *Client, _ Command) {
	client.SendDomainMessage(&domain.Message{
		Topic:     domain.TopicSystemPong,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionPong,
		Timestamp: time.Now().UTC(),
	})
}

func errorMessage(text string) *domain.Message {
	return &domain.Message{
		Topic:     domain.TopicSystemError,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionError,
		Data:      map[string]string{"error": text},
		Timestamp: time.Now().UTC(),
	}
}

// ErrorMessage builds a system.error message for client-visible command failures.
func ErrorMessage(text string) *domain.Message { return errorMessage(text) }

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
