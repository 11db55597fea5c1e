package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/domain"
)

type toastCollectorKey struct{}

// ToastCollector gathers the toasts raised while serving one request.
type ToastCollector struct {
	mu     sync.Mutex
	toasts []domain.Toast
}

func (c *ToastCollector) add(toast domain.Toast) {
	c.mu.Lock()
	c.toasts = append(c.toasts, toast)
	c.mu.Unlock()
}

// Toasts returns the collected toasts in raise order.
func (c *ToastCollector) Toasts() []domain.Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Toast{}, c.toasts...)
}

// WithToastCollector returns a context whose toasts are also recorded on the returned collector.
func WithToastCollector(ctx context.Context) (context.Context, *ToastCollector) {
	collector := &ToastCollector{}
	return context.WithValue(ctx, toastCollectorKey{}, collector), collector
}

// ToastNotifier logs toasts, pushes them to websocket subscribers and records them on the
// request collector when one is present.
type ToastNotifier struct {
	broadcast *usecase.BroadcastUseCase
	logger    *slog.Logger
}

func NewToastNotifier(broadcast *usecase.BroadcastUseCase, logger *slog.Logger) *ToastNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToastNotifier{broadcast: broadcast, logger: logger.With(slog.String("component", "toast"))}
}

func (n *ToastNotifier) Notify(ctx context.Context, toast domain.Toast) {
	level := slog.LevelInfo
	if toast.Level == domain.ToastError {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, toast.Message, slog.String("entity", toast.Entity), slog.String("variant", string(toast.Level)))
	if collector, ok := ctx.Value(toastCollectorKey{}).(*ToastCollector); ok {
		collector.add(toast)
	}
	n.broadcast.Toast(ctx, toast)
}

var _ port.Notifier = (*ToastNotifier)(nil)
