package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookbridge.io/bookbridge/internal/auth"
	"bookbridge.io/bookbridge/internal/domain"
	"bookbridge.io/bookbridge/internal/identity"
	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
	"bookbridge.io/bookbridge/internal/pkg/logger"
)

const ginKeyClaims = "claims"

// GetClaims returns the verified token claims, or nil for anonymous
// requests. The login handler needs the raw claims to record a login.
func GetClaims(c *gin.Context) *domain.Claims {
	if v, ok := c.Get(ginKeyClaims); ok {
		if claims, ok := v.(*domain.Claims); ok {
			return claims
		}
	}
	return nil
}

// Identity authenticates requests that carry a bearer token and resolves
// the caller's account. Requests without an Authorization header pass
// through anonymously; the authenticated guard rejects those on protected
// routes. A header that is present but unusable fails closed here, before
// any verification work.
func Identity(verifier auth.TokenVerifier, resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, err := auth.ParseBearer(header)
		if err != nil {
			abortWith(c, apperrors.ErrMissingToken())
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debug("token rejected",
				zap.String("request_id", GetRequestID(c.Request.Context())),
				zap.Error(err),
			)
			abortWith(c, apperrors.ErrInvalidToken())
			return
		}

		acct, err := resolver.Resolve(c.Request.Context(), claims)
		if err != nil {
			logger.Error("identity resolution failed",
				zap.String("request_id", GetRequestID(c.Request.Context())),
				zap.Error(err),
			)
			abortWith(c, apperrors.Wrap(err, apperrors.CodeInternal, "failed to resolve identity", http.StatusInternalServerError))
			return
		}

		c.Set(ginKeyClaims, claims)
		SetAccount(c, acct)
		c.Next()
	}
}
