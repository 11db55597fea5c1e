package auth

import (
	"context"
	"strings"
)

type credentialKey struct{}

type credential struct {
	token string
	user  Principal
}

// WithCredential binds the caller's backend token and identity to ctx. Backend calls made
// under the returned context present that token.
func WithCredential(ctx context.Context, token string, user Principal) context.Context {
	return context.WithValue(ctx, credentialKey{}, credential{token: strings.TrimSpace(token), user: user})
}

// TokenFromContext returns the token bound by WithCredential, or "".
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if cred, ok := ctx.Value(credentialKey{}).(credential); ok {
		return cred.token
	}
	return ""
}

// PrincipalFromContext returns the identity bound by WithCredential.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	cred, ok := ctx.Value(credentialKey{}).(credential)
	if !ok || cred.token == "" {
		return Principal{}, false
	}
	return cred.user, true
}
