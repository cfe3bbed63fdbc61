package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookbridge.io/bookbridge/internal/domain"
)

type contextKey string

const (
	// RequestIDHeader is the HTTP header for request tracing.
	RequestIDHeader = "X-Request-ID"

	ctxKeyRequestID contextKey = "request_id"
	ctxKeyEmail     contextKey = "account_email"

	ginKeyAccount = "account"
)

// RequestID injects a unique request ID into the context and response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			id, _ := uuid.NewV7()
			rid = id.String()
		}
		c.Set(string(ctxKeyRequestID), rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), ctxKeyRequestID, rid),
		)
		c.Next()
	}
}

// GetRequestID extracts request ID from context.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// SetAccount stores the resolved account on the gin context and puts the
// caller email on the request context for log correlation.
func SetAccount(c *gin.Context, acct *domain.Account) {
	c.Set(ginKeyAccount, acct)
	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ctxKeyEmail, acct.Email),
	)
}

// GetAccount returns the resolved account, or nil for anonymous requests.
func GetAccount(c *gin.Context) *domain.Account {
	if v, ok := c.Get(ginKeyAccount); ok {
		if acct, ok := v.(*domain.Account); ok {
			return acct
		}
	}
	return nil
}

// GetAccountEmail extracts the caller email from a request context.
func GetAccountEmail(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyEmail).(string); ok {
		return v
	}
	return ""
}
