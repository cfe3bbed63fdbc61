package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookbridge.io/bookbridge/internal/api/middleware"
	"bookbridge.io/bookbridge/internal/domain"
	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
	"bookbridge.io/bookbridge/internal/pkg/logger"
	"bookbridge.io/bookbridge/internal/scope"
)

// ListPublicBooks handles GET /books. Public, no identity required.
func (s *Server) ListPublicBooks(c *gin.Context) {
	q, err := scope.PublicBooks(c.Query("status"), c.Query("page"), c.Query("limit"))
	if err != nil {
		s.fail(c, err)
		return
	}

	items, total, err := s.stores.Books.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeBookNotFound, "book not found"))
		return
	}
	c.JSON(http.StatusOK, paged(items, q.Page, total))
}

// GetBook handles GET /books/:id. Public.
func (s *Server) GetBook(c *gin.Context) {
	book, err := s.stores.Books.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeBookNotFound, "book not found"))
		return
	}
	c.JSON(http.StatusOK, book)
}

type createBookRequest struct {
	Title          string     `json:"title" binding:"required"`
	Author         string     `json:"author"`
	Genre          string     `json:"genre"`
	CoverURL       string     `json:"coverURL"`
	PickupLocation string     `json:"pickupLocation"`
	AvailableUntil *time.Time `json:"availableUntil"`
}

// CreateBook handles POST /books. OwnerEmail comes from the verified
// caller; a client-supplied owner is never read.
func (s *Server) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "title is required"))
		return
	}
	caller := middleware.GetAccount(c)

	book, err := s.stores.Books.Insert(c.Request.Context(), &domain.Book{
		Title:          req.Title,
		Author:         req.Author,
		Genre:          req.Genre,
		CoverURL:       req.CoverURL,
		PickupLocation: req.PickupLocation,
		AvailableUntil: req.AvailableUntil,
		OwnerEmail:     caller.Email,
		Status:         domain.BookAvailable,
	})
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeBookNotFound, "book not found"))
		return
	}

	logger.Info("book listed",
		zap.String("book_id", book.ID),
		zap.String("owner", caller.Email),
	)
	c.JSON(http.StatusCreated, book)
}

// ListMyBooks handles GET /my-books. The owner scope is forced to the
// caller; status is the only client filter honored.
func (s *Server) ListMyBooks(c *gin.Context) {
	caller := middleware.GetAccount(c)

	q, err := scope.MyBooks(caller, c.Query("status"), c.Query("page"), c.Query("limit"))
	if err != nil {
		s.fail(c, err)
		return
	}

	items, total, err := s.stores.Books.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeBookNotFound, "book not found"))
		return
	}
	c.JSON(http.StatusOK, paged(items, q.Page, total))
}

type requestBookBody struct {
	// DonationAmount is in minor currency units.
	DonationAmount *int64 `json:"donationAmount"`
}

// RequestBook handles PATCH /books/:id/request. The available→requested
// transition is conditional: losing the race yields 409, not a silent
// overwrite of the first requester.
func (s *Server) RequestBook(c *gin.Context) {
	var body requestBookBody
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "malformed request body"))
		return
	}
	if body.DonationAmount != nil && *body.DonationAmount < 0 {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "donationAmount must not be negative"))
		return
	}
	caller := middleware.GetAccount(c)

	book, err := s.stores.Books.MarkRequested(c.Request.Context(), c.Param("id"), caller.Email, body.DonationAmount)
	if err != nil {
		s.fail(c, storeError(err, apperrors.CodeBookNotFound, "book not found"))
		return
	}

	logger.Info("book requested",
		zap.String("book_id", book.ID),
		zap.String("requester", caller.Email),
	)
	c.JSON(http.StatusOK, book)
}
