package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookbridge.io/bookbridge/internal/api/middleware"
	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
	"bookbridge.io/bookbridge/internal/pkg/logger"
)

// Login handles POST /session. The upsert is atomic: first sight creates
// the account with donor/active defaults, a repeat login increments
// loginCount and refreshes display fields. Role and status are never
// touched by a login.
func (s *Server) Login(c *gin.Context) {
	claims := middleware.GetClaims(c)

	acct, err := s.resolver.Login(c.Request.Context(), claims)
	if err != nil {
		s.fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "an internal error occurred", http.StatusInternalServerError))
		return
	}

	logger.Info("login recorded",
		zap.String("request_id", middleware.GetRequestID(c.Request.Context())),
		zap.String("email", acct.Email),
		zap.Int64("login_count", acct.LoginCount),
	)
	c.JSON(http.StatusOK, acct)
}

// Me handles GET /me.
func (s *Server) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetAccount(c))
}
