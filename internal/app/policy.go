package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookbridge.io/bookbridge/internal/api/handlers"
	"bookbridge.io/bookbridge/internal/api/middleware"
	"bookbridge.io/bookbridge/internal/domain"
)

// route binds one endpoint to its handler and its ordered guard chain. An
// empty guard list is a public route.
type route struct {
	method  string
	path    string
	guards  []middleware.Guard
	handler gin.HandlerFunc
}

// policyTable is the authoritative endpoint policy. Every route's access
// rules live here, not in the handlers; reviewing authorization means
// reading this one function.
func policyTable(s *handlers.Server) []route {
	authed := middleware.Authenticated()
	active := middleware.Active()
	admin := middleware.RequireRole(domain.RoleAdmin)
	requestOwner := middleware.OwnerOrAdmin(s.RequestOwner)

	return []route{
		// Public surface.
		{http.MethodGet, "/health", nil, s.Health},
		{http.MethodGet, "/health/ready", nil, s.Ready},
		{http.MethodGet, "/books", nil, s.ListPublicBooks},
		{http.MethodGet, "/books/:id", nil, s.GetBook},

		// Session and profile.
		{http.MethodPost, "/session", []middleware.Guard{authed}, s.Login},
		{http.MethodGet, "/me", []middleware.Guard{authed}, s.Me},

		// Book lifecycle.
		{http.MethodPost, "/books", []middleware.Guard{authed, active}, s.CreateBook},
		{http.MethodGet, "/my-books", []middleware.Guard{authed}, s.ListMyBooks},
		{http.MethodPatch, "/books/:id/request", []middleware.Guard{authed, active}, s.RequestBook},

		// Donation requests.
		{http.MethodPost, "/requests", []middleware.Guard{authed, active}, s.CreateRequest},
		{http.MethodGet, "/my-requests", []middleware.Guard{authed}, s.ListMyRequests},
		{http.MethodGet, "/requests/:id", []middleware.Guard{authed, requestOwner}, s.GetRequest},
		{http.MethodPatch, "/requests/:id", []middleware.Guard{authed, active, requestOwner}, s.UpdateRequest},
		{http.MethodDelete, "/requests/:id", []middleware.Guard{authed, active, requestOwner}, s.DeleteRequest},

		// Payments.
		{http.MethodPost, "/payments/intent", []middleware.Guard{authed, active}, s.CreatePaymentIntent},

		// Admin surface.
		{http.MethodGet, "/admin/users", []middleware.Guard{authed, active, admin}, s.ListUsers},
		{http.MethodPatch, "/admin/users/role", []middleware.Guard{authed, active, admin}, s.UpdateUserRole},
		{http.MethodPatch, "/admin/users/status", []middleware.Guard{authed, active, admin}, s.UpdateUserStatus},
		{http.MethodGet, "/admin/stats", []middleware.Guard{authed, active, admin}, s.Stats},
	}
}
