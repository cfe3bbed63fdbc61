// Package auth verifies bearer identity tokens.
//
// The external identity provider is abstracted behind TokenVerifier; the
// production implementation verifies HS256 JWTs issued by the platform's
// identity service, with a rotation list of additional accepted keys.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookbridge.io/bookbridge/internal/domain"
)

// Errors returned by header parsing and verification. Callers map these to
// 401 responses; the distinction matters because a missing token must fail
// before the provider is ever consulted.
var (
	ErrNoToken      = errors.New("no bearer token")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenVerifier verifies a raw bearer token and yields identity claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Claims, error)
}

// ParseBearer extracts the token from an Authorization header value.
// An absent header or any scheme other than Bearer fails with ErrNoToken.
func ParseBearer(headerValue string) (string, error) {
	if headerValue == "" {
		return "", ErrNoToken
	}
	parts := strings.SplitN(headerValue, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrNoToken
	}
	return parts[1], nil
}

// tokenClaims are the JWT claims the identity service issues.
type tokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 tokens against a signing key plus an
// optional rotation list.
type JWTVerifier struct {
	signingKey       []byte
	verificationKeys [][]byte
	issuer           string
}

// NewJWTVerifier builds a verifier. verificationKeys may be nil.
func NewJWTVerifier(signingKey []byte, verificationKeys [][]byte, issuer string) *JWTVerifier {
	return &JWTVerifier{
		signingKey:       signingKey,
		verificationKeys: verificationKeys,
		issuer:           issuer,
	}
}

// Verify implements TokenVerifier. Verification failures are terminal for
// the request; they are never retried at this layer.
func (v *JWTVerifier) Verify(_ context.Context, token string) (*domain.Claims, error) {
	keys := append([][]byte{v.signingKey}, v.verificationKeys...)

	var lastErr error
	for _, key := range keys {
		claims, err := v.parseWithKey(token, key)
		if err == nil {
			return claims, nil
		}
		lastErr = err
		// Only a signature mismatch justifies trying the next rotation
		// key; expiry, issuer and claim failures are final.
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, lastErr)
}

func (v *JWTVerifier) parseWithKey(token string, key []byte) (*domain.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Email == "" {
		return nil, errors.New("token missing email claim")
	}

	return &domain.Claims{
		Email:       claims.Email,
		SubjectID:   claims.Subject,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}, nil
}

// SignToken creates a signed token for the given identity. Used by the
// seed tooling and tests; production tokens come from the identity
// service.
func SignToken(signingKey []byte, issuer string, claims domain.Claims, expiresIn time.Duration) (string, error) {
	now := time.Now()
	tc := tokenClaims{
		Email:   claims.Email,
		Name:    claims.DisplayName,
		Picture: claims.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   claims.SubjectID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
