package app

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbridge.io/bookbridge/internal/api/handlers"
)

func TestPolicyTable_Shape(t *testing.T) {
	table := policyTable(handlers.NewServer(handlers.ServerDeps{}))
	require.NotEmpty(t, table)

	seen := map[string]bool{}
	for _, r := range table {
		key := r.method + " " + r.path
		assert.False(t, seen[key], "duplicate route %s", key)
		seen[key] = true
		assert.NotNil(t, r.handler, "%s has no handler", key)
	}
}

func TestPolicyTable_PublicRoutesAreReadOnly(t *testing.T) {
	for _, r := range policyTable(handlers.NewServer(handlers.ServerDeps{})) {
		if len(r.guards) == 0 {
			assert.Equal(t, http.MethodGet, r.method, "public route %s must be read-only", r.path)
		}
	}
}

func TestPolicyTable_GuardedRoutesStartAuthenticated(t *testing.T) {
	for _, r := range policyTable(handlers.NewServer(handlers.ServerDeps{})) {
		if len(r.guards) > 0 {
			assert.Equal(t, "authenticated", r.guards[0].Name, "%s %s", r.method, r.path)
		}
	}
}

func TestPolicyTable_AdminSurfaceGated(t *testing.T) {
	for _, r := range policyTable(handlers.NewServer(handlers.ServerDeps{})) {
		if !strings.HasPrefix(r.path, "/admin/") {
			continue
		}
		var hasRole bool
		for _, g := range r.guards {
			if g.Name == "role:admin" {
				hasRole = true
			}
		}
		assert.True(t, hasRole, "%s %s lacks the admin role guard", r.method, r.path)
	}
}

func TestPolicyTable_MutationsRequireActive(t *testing.T) {
	for _, r := range policyTable(handlers.NewServer(handlers.ServerDeps{})) {
		if r.method == http.MethodGet || r.path == "/session" {
			continue
		}
		var hasActive bool
		for _, g := range r.guards {
			if g.Name == "active" {
				hasActive = true
			}
		}
		assert.True(t, hasActive, "%s %s mutates without the active guard", r.method, r.path)
	}
}
