package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const LoginPath = "/login"

// TokenResolver maps a caller token to the operator it was issued to.
type TokenResolver interface {
	Lookup(token string) (Principal, bool)
}

// RequireSession gates admin routes on the caller's own credential, read from the
// Authorization header or the session cookie. Known callers continue with the credential
// bound to the request context. Browsers are redirected to the login route; JSON and
// websocket clients get a 401 body pointing at it.
func RequireSession(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			token := RequestToken(req)
			if user, ok := resolver.Lookup(token); ok {
				c.SetRequest(req.WithContext(WithCredential(req.Context(), token, user)))
				return next(c)
			}
			if wantsJSON(req) {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":    ErrNotAuthenticated.Error(),
					"redirect": LoginPath,
				})
			}
			return c.Redirect(http.StatusSeeOther, LoginPath)
		}
	}
}

func wantsJSON(req *http.Request) bool {
	if strings.EqualFold(req.Header.Get("Upgrade"), "websocket") {
		return true
	}
	accept := req.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
