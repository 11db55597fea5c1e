package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenInspector decides whether a persisted token is still worth presenting to the
// backend. Opaque DRF tokens always pass; JWTs are checked for expiry and, when a key is
// configured, for a valid signature.
type TokenInspector struct {
	secret    []byte
	publicKey *rsa.PublicKey
	now       func() time.Time
}

// NewTokenInspector uses RS256 when publicKeyPEM parses, HMAC when only a secret is set and
// unverified expiry checks when neither is configured.
func NewTokenInspector(secret, publicKeyPEM string) *TokenInspector {
	inspector := &TokenInspector{
		secret: []byte(strings.TrimSpace(secret)),
		now:    time.Now,
	}
	if strings.TrimSpace(publicKeyPEM) != "" {
		if key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM)); err == nil {
			inspector.publicKey = key
		}
	}
	return inspector
}

func (i *TokenInspector) Check(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}
	if !looksLikeJWT(token) {
		return nil
	}

	claims := &jwt.RegisteredClaims{}
	if i.publicKey == nil && len(i.secret) == 0 {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		_, err := jwt.ParseWithClaims(token, claims, i.keyFunc,
			jwt.WithLeeway(5*time.Second),
			jwt.WithTimeFunc(i.now),
		)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	if exp := claims.ExpiresAt; exp != nil && !exp.Time.After(i.now()) {
		return ErrTokenExpired
	}
	return nil
}

func (i *TokenInspector) keyFunc(t *jwt.Token) (interface{}, error) {
	if i.publicKey != nil {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v, expected RS256", t.Header["alg"])
		}
		return i.publicKey, nil
	}
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return i.secret, nil
}

func looksLikeJWT(token string) bool {
	return strings.Count(token, ".") == 2 && strings.HasPrefix(token, "eyJ")
}
