package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookbridge.io/bookbridge/internal/api/middleware"
	"bookbridge.io/bookbridge/internal/domain"
	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
	"bookbridge.io/bookbridge/internal/pkg/logger"
	"bookbridge.io/bookbridge/internal/scope"
)

// ListUsers handles GET /admin/users. The caller's own row is excluded so
// an admin cannot demote or block themselves from the listing they act on.
func (s *Server) ListUsers(c *gin.Context) {
	caller := middleware.GetAccount(c)

	q, err := scope.AdminUsers(caller, c.Query("page"), c.Query("limit"))
	if err != nil {
		s.fail(c, err)
		return
	}

	items, total, err := s.stores.Accounts.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeAccountNotFound, "account not found"))
		return
	}
	c.JSON(http.StatusOK, paged(items, q.Page, total))
}

type updateRoleBody struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

// UpdateUserRole handles PATCH /admin/users/role.
func (s *Server) UpdateUserRole(c *gin.Context) {
	var body updateRoleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "email and role are required"))
		return
	}
	role, err := domain.ParseRole(body.Role)
	if err != nil {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "unknown role"))
		return
	}

	if err := s.stores.Accounts.UpdateRole(c.Request.Context(), body.Email, role); err != nil {
		s.fail(c, storeError(err, apperrors.CodeAccountNotFound, "account not found"))
		return
	}

	logger.Info("role updated",
		zap.String("email", body.Email),
		zap.String("role", string(role)),
		zap.String("by", middleware.GetAccount(c).Email),
	)
	c.JSON(http.StatusOK, gin.H{"email": body.Email, "role": role})
}

type updateStatusBody struct {
	Email  string `json:"email" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// UpdateUserStatus handles PATCH /admin/users/status.
func (s *Server) UpdateUserStatus(c *gin.Context) {
	var body updateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "email and status are required"))
		return
	}
	status, err := domain.ParseAccountStatus(body.Status)
	if err != nil {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "unknown account status"))
		return
	}

	if err := s.stores.Accounts.UpdateStatus(c.Request.Context(), body.Email, status); err != nil {
		s.fail(c, storeError(err, apperrors.CodeAccountNotFound, "account not found"))
		return
	}

	logger.Info("status updated",
		zap.String("email", body.Email),
		zap.String("status", string(status)),
		zap.String("by", middleware.GetAccount(c).Email),
	)
	c.JSON(http.StatusOK, gin.H{"email": body.Email, "status": status})
}

// Stats handles GET /admin/stats.
func (s *Server) Stats(c *gin.Context) {
	stats, err := s.stats.Dashboard(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
