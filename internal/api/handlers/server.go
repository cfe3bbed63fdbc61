// Package handlers implements the HTTP handlers of the BookBridge API.
//
// Handlers never make authorization decisions; the per-route guard chain
// runs before them. They validate bodies, force identity fields from the
// resolved caller, and push failures through the centralized error
// handler via c.Error.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookbridge.io/bookbridge/internal/identity"
	"bookbridge.io/bookbridge/internal/payment"
	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
	"bookbridge.io/bookbridge/internal/scope"
	"bookbridge.io/bookbridge/internal/service"
	"bookbridge.io/bookbridge/internal/store"
)

// Server carries handler dependencies.
type Server struct {
	stores   store.Stores
	resolver *identity.Resolver
	payments payment.IntentCreator
	stats    *service.StatsService
}

// ServerDeps holds all dependencies for creating a Server. Manual DI.
type ServerDeps struct {
	Stores   store.Stores
	Resolver *identity.Resolver
	Payments payment.IntentCreator
	Stats    *service.StatsService
}

// NewServer creates a Server with all dependencies.
func NewServer(deps ServerDeps) *Server {
	return &Server{
		stores:   deps.Stores,
		resolver: deps.Resolver,
		payments: deps.Payments,
		stats:    deps.Stats,
	}
}

// fail records the error for the centralized error handler to render.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// storeError maps store sentinels to the API error taxonomy. notFoundCode
// and notFoundMsg name the resource so 404s stay specific.
func storeError(err error, notFoundCode, notFoundMsg string) *apperrors.AppError {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		return apperrors.ErrInvalidID()
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound(notFoundCode, notFoundMsg)
	case errors.Is(err, store.ErrConflict):
		return apperrors.ErrBookUnavailable()
	}
	if appErr, ok := apperrors.IsAppError(err); ok {
		return appErr
	}
	return apperrors.Wrap(err, apperrors.CodeInternal, "an internal error occurred", http.StatusInternalServerError)
}

// pagination is the list-response metadata block.
type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// paged wraps list items with their pagination metadata. Total always
// comes from the same predicate that produced the items.
func paged(items any, p scope.Page, total int64) gin.H {
	totalPages := (total + int64(p.Size) - 1) / int64(p.Size)
	return gin.H{
		"items": items,
		"pagination": pagination{
			Page:       p.Number,
			Limit:      p.Size,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
