package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbridge.io/bookbridge/internal/domain"
	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
)

func guardedRouter(acct *domain.Account, guards ...Guard) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler())
	if acct != nil {
		router.Use(func(c *gin.Context) { SetAccount(c, acct) })
	}
	router.GET("/t", Chain(guards...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func hit(t *testing.T, router *gin.Engine) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	body := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w.Code, body
}

func activeDonor(email string) *domain.Account {
	return &domain.Account{Email: email, Role: domain.RoleDonor, Status: domain.AccountActive}
}

func TestGuard_Authenticated(t *testing.T) {
	code, body := hit(t, guardedRouter(nil, Authenticated()))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "missing token", body["message"])

	code, _ = hit(t, guardedRouter(activeDonor("a@x.com"), Authenticated()))
	assert.Equal(t, http.StatusOK, code)
}

func TestGuard_Active_BlockedAccount(t *testing.T) {
	blocked := &domain.Account{Email: "b@x.com", Role: domain.RoleDonor, Status: domain.AccountBlocked}

	code, body := hit(t, guardedRouter(blocked, Authenticated(), Active()))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, apperrors.CodeForbidden, body["code"])
}

func TestGuard_RequireRole(t *testing.T) {
	code, _ := hit(t, guardedRouter(activeDonor("d@x.com"), Authenticated(), RequireRole(domain.RoleAdmin)))
	assert.Equal(t, http.StatusForbidden, code)

	admin := &domain.Account{Email: "a@x.com", Role: domain.RoleAdmin, Status: domain.AccountActive}
	code, _ = hit(t, guardedRouter(admin, Authenticated(), RequireRole(domain.RoleAdmin)))
	assert.Equal(t, http.StatusOK, code)
}

func TestGuard_ChainOrderShortCircuits(t *testing.T) {
	// A blocked admin hits the active guard before the role guard, and an
	// anonymous caller never reaches either.
	blocked := &domain.Account{Email: "a@x.com", Role: domain.RoleAdmin, Status: domain.AccountBlocked}
	code, body := hit(t, guardedRouter(blocked, Authenticated(), Active(), RequireRole(domain.RoleAdmin)))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "account is blocked", body["message"])

	code, body = hit(t, guardedRouter(nil, Authenticated(), Active(), RequireRole(domain.RoleAdmin)))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "missing token", body["message"])
}

func TestGuard_OwnerOrAdmin(t *testing.T) {
	ownerOf := func(email string) ResourceOwnerFunc {
		return func(*gin.Context) (string, *apperrors.AppError) { return email, nil }
	}

	code, _ := hit(t, guardedRouter(activeDonor("me@x.com"), Authenticated(), OwnerOrAdmin(ownerOf("me@x.com"))))
	assert.Equal(t, http.StatusOK, code)

	code, body := hit(t, guardedRouter(activeDonor("me@x.com"), Authenticated(), OwnerOrAdmin(ownerOf("other@x.com"))))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, apperrors.CodeForbidden, body["code"])

	admin := &domain.Account{Email: "root@x.com", Role: domain.RoleAdmin, Status: domain.AccountActive}
	code, _ = hit(t, guardedRouter(admin, Authenticated(), OwnerOrAdmin(ownerOf("other@x.com"))))
	assert.Equal(t, http.StatusOK, code)
}

func TestGuard_OwnerOrAdmin_ResourceErrors(t *testing.T) {
	missing := func(*gin.Context) (string, *apperrors.AppError) {
		return "", apperrors.NotFound(apperrors.CodeRequestNotFound, "request not found")
	}

	code, body := hit(t, guardedRouter(activeDonor("me@x.com"), Authenticated(), OwnerOrAdmin(missing)))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, apperrors.CodeRequestNotFound, body["code"])
}

func TestGuard_EmptyChainIsPublic(t *testing.T) {
	code, _ := hit(t, guardedRouter(nil))
	assert.Equal(t, http.StatusOK, code)
}
