package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
)

type createIntentBody struct {
	// Amount is in minor currency units (cents for usd).
	Amount   int64  `json:"amount" binding:"required"`
	Currency string `json:"currency"`
}

// CreatePaymentIntent handles POST /payments/intent.
func (s *Server) CreatePaymentIntent(c *gin.Context) {
	var body createIntentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, apperrors.BadRequest(apperrors.CodeInvalidRequest, "amount is required"))
		return
	}

	intent, err := s.payments.CreateIntent(c.Request.Context(), body.Amount, body.Currency)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}
