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

type createRequestBody struct {
	BookID string `json:"bookId" binding:"required"`
	Note   string `json:"note"`
}

// CreateRequest handles POST /requests. RequesterEmail is forced to the
// verified caller; a client-supplied value is discarded.
func (s *Server) CreateRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "bookId is required"))
		return
	}
	caller := middleware.GetAccount(c)

	if _, err := s.stores.Books.FindByID(c.Request.Context(), body.BookID); err != nil {
		s.fail(c, storeError(err, apperrors.CodeBookNotFound, "book not found"))
		return
	}

	req, err := s.stores.Requests.Insert(c.Request.Context(), &domain.DonationRequest{
		BookID:         body.BookID,
		RequesterEmail: caller.Email,
		Note:           body.Note,
		Status:         domain.RequestPending,
	})
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeRequestNotFound, "request not found"))
		return
	}

	logger.Info("donation request created",
		zap.String("request_id", req.ID),
		zap.String("book_id", req.BookID),
		zap.String("requester", caller.Email),
	)
	c.JSON(http.StatusCreated, req)
}

// ListMyRequests handles GET /my-requests. The requester scope is forced
// to the caller.
func (s *Server) ListMyRequests(c *gin.Context) {
	caller := middleware.GetAccount(c)

	q, err := scope.MyRequests(caller, c.Query("status"), c.Query("page"), c.Query("limit"))
	if err != nil {
		s.fail(c, err)
		return
	}

	items, total, err := s.stores.Requests.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeRequestNotFound, "request not found"))
		return
	}
	c.JSON(http.StatusOK, paged(items, q.Page, total))
}

// GetRequest handles GET /requests/:id. The ownership guard has already
// run; unknown and malformed ids never reach this point.
func (s *Server) GetRequest(c *gin.Context) {
	req, err := s.stores.Requests.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeRequestNotFound, "request not found"))
		return
	}
	c.JSON(http.StatusOK, req)
}

type updateRequestBody struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRequest handles PATCH /requests/:id.
func (s *Server) UpdateRequest(c *gin.Context) {
	var body updateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "status is required"))
		return
	}
	status, err := domain.ParseRequestStatus(body.Status)
	if err != nil {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "unknown request status"))
		return
	}

	req, err := s.stores.Requests.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeRequestNotFound, "request not found"))
		return
	}
	c.JSON(http.StatusOK, req)
}

// DeleteRequest handles DELETE /requests/:id.
func (s *Server) DeleteRequest(c *gin.Context) {
	if err := s.stores.Requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, storeError(err, apperrors.CodeRequestNotFound, "request not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// RequestOwner loads the requester email for the request addressed by the
// route. The ownership guard uses it, so 404 and 400 surface before any
// ownership decision.
func (s *Server) RequestOwner(c *gin.Context) (string, *apperrors.AppError) {
	req, err := s.stores.Requests.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		return "", storeError(err, apperrors.CodeRequestNotFound, "request not found")
	}
	return req.RequesterEmail, nil
}
