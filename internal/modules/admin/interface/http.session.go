package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"nomadeAdmin/internal/shared/auth"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) loginStatus(c echo.Context) error {
	user, ok := h.sessionUC.Current(auth.RequestToken(c.Request()))
	body := map[string]any{"authenticated": ok}
	if ok {
		body["user"] = user
	}
	return c.JSON(http.StatusOK, body)
}

// login hands the backend token back to the caller, as a cookie for browsers and in the body
// for API clients that send it as an Authorization header.
func (h *Handler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, errInvalidBody)
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	record, err := h.sessionUC.Login(ctx, req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}
	c.SetCookie(h.sessionCookie(record.Token, 0))
	return c.JSON(http.StatusOK, map[string]any{"authenticated": true, "user": record.User, "token": record.Token})
}

// logout closes the caller's own session. It always succeeds from the operator's point of
// view; only a local store failure is reported.
func (h *Handler) logout(c echo.Context) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	if err := h.sessionUC.Logout(ctx, auth.RequestToken(c.Request())); err != nil {
		return h.respondError(c, err)
	}
	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, map[string]any{"authenticated": false, "redirect": auth.LoginPath})
}

func (h *Handler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
