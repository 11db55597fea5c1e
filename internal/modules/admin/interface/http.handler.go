package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/domain"
	"nomadeAdmin/internal/modules/admin/infrastructure"
	"nomadeAdmin/internal/shared/auth"
	"nomadeAdmin/internal/shared/httputil"
)

const toastsKey = "admin.toasts"

// Handler serves the operator HTTP API and the admin websocket stream.
type Handler struct {
	registry       *infrastructure.Registry
	hub            *infrastructure.Hub
	commands       *infrastructure.CommandProcessor
	sessionUC      *usecase.SessionUseCase
	sessions       *auth.Sessions
	errors         *httputil.ErrorMapper
	allowedActions []string
	allowedOrigins map[string]struct{}
	secureCookie   bool
	timeout        time.Duration
	logger         *slog.Logger
	upgrader       websocket.Upgrader
}

type Options struct {
	// AllowedActions adds "<entity>.<action>" change topics to websocket subscriptions.
	AllowedActions []string
	// AllowedOrigins lists the cross-origin hosts allowed to open the websocket stream.
	// Same-origin requests are always accepted.
	AllowedOrigins []string
	// SecureCookie marks the session cookie Secure.
	SecureCookie   bool
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

func NewHandler(registry *infrastructure.Registry, hub *infrastructure.Hub, sessionUC *usecase.SessionUseCase, sessions *auth.Sessions, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	if len(opts.AllowedActions) == 0 {
		opts.AllowedActions = []string{domain.ActionCreated, domain.ActionUpdated, domain.ActionDeleted}
	}
	h := &Handler{
		registry:       registry,
		hub:            hub,
		commands:       infrastructure.NewCommandProcessor(hub),
		sessionUC:      sessionUC,
		sessions:       sessions,
		errors:         newErrorMapper(),
		allowedActions: opts.AllowedActions,
		allowedOrigins: originSet(opts.AllowedOrigins),
		secureCookie:   opts.SecureCookie,
		timeout:        opts.RequestTimeout,
		logger:         opts.Logger.With(slog.String("component", "http")),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	h.registerCommands()
	return h
}

// Register mounts every route on e. Admin routes sit behind the session gate.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.health)
	e.GET(auth.LoginPath, h.loginStatus)
	e.POST(auth.LoginPath, h.login)
	e.POST("/logout", h.logout)

	admin := e.Group("/admin/api", auth.RequireSession(h.sessions), collectToasts)
	admin.GET("/galleries/:gallery/:parentId", h.listImages)
	admin.POST("/galleries/:gallery/:parentId", h.addImage)
	admin.DELETE("/galleries/:gallery/:parentId/:imageId", h.deleteImage)
	admin.POST("/galleries/:gallery/:parentId/:imageId/primary", h.promoteImage)
	admin.GET("/:entity", h.list)
	admin.POST("/:entity", h.create)
	admin.GET("/:entity/stats", h.stats)
	admin.GET("/:entity/:id", h.detail)
	admin.PATCH("/:entity/:id", h.update)
	admin.DELETE("/:entity/:id", h.remove)

	e.GET("/ws/admin/:entity", h.streamEntity, auth.RequireSession(h.sessions))
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"sessions":  h.sessions.Count(),
		"wsClients": h.hub.ClientCount(),
	})
}

// envelope is the body of every admin API response. Toasts raised while serving the request
// ride along so non-websocket clients can show them.
type envelope struct {
	Data     any            `json:"data,omitempty"`
	Toasts   []domain.Toast `json:"toasts,omitempty"`
	Error    string         `json:"error,omitempty"`
	Details  any            `json:"details,omitempty"`
	Redirect string         `json:"redirect,omitempty"`
}

func collectToasts(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, collector := infrastructure.WithToastCollector(c.Request().Context())
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set(toastsKey, collector)
		return next(c)
	}
}

func toasts(c echo.Context) []domain.Toast {
	if collector, ok := c.Get(toastsKey).(*infrastructure.ToastCollector); ok {
		return collector.Toasts()
	}
	return nil
}

func (h *Handler) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Data: data, Toasts: toasts(c)})
}

func (h *Handler) respondError(c echo.Context, err error) error {
	info := h.errors.Map(err)
	if info.Status >= http.StatusInternalServerError {
		h.logger.Error("admin request failed", slog.String("path", c.Path()), slog.Any("error", err))
	} else {
		h.logger.Debug("admin request rejected", slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	}
	return c.JSON(info.Status, envelope{Error: info.Message, Details: info.Details, Toasts: toasts(c)})
}
