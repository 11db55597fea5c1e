package auth

import (
	"net/http"
	"strings"
)

// SessionCookie carries the backend token for browser callers.
const SessionCookie = "nomade_admin_session"

var authorizationSchemes = []string{"Token ", "Bearer "}

// RequestToken returns the caller's credential: the Authorization header first, then the
// session cookie.
func RequestToken(r *http.Request) string {
	if token := ExtractToken(r); token != "" {
		return token
	}
	if r == nil {
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// ExtractToken returns the credential carried by the Authorization header, accepting both
// the DRF "Token" and the "Bearer" schemes case-insensitively.
func ExtractToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	return ExtractTokenFromHeader(r.Header.Get("Authorization"))
}

func ExtractTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	lowered := strings.ToLower(header)
	for _, scheme := range authorizationSchemes {
		if strings.HasPrefix(lowered, strings.ToLower(scheme)) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}
