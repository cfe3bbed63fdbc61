package payment

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
	"bookbridge.io/bookbridge/internal/pkg/logger"
)

func init() {
	_ = logger.Init("error", "json")
}

func TestStripeClient_CreateIntent_RejectsBadAmounts(t *testing.T) {
	c := NewStripeClient("sk_test_dummy", "usd")

	for _, amount := range []int64{0, -1, -500} {
		_, err := c.CreateIntent(context.Background(), amount, "usd")
		require.Error(t, err, "amount %d", amount)
		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
		assert.Equal(t, apperrors.CodeInvalidRequest, appErr.Code)
	}
}
