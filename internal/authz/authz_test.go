package authz_test

import (
	"testing"

	"sweetshop/internal/authz"
	"sweetshop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcer_DefaultPolicies(t *testing.T) {
	e, err := authz.NewEnforcer(authz.Policies)
	require.NoError(t, err)

	tests := []struct {
		role, path, method string
		want               bool
	}{
		{models.RoleAdmin, "/api/v1/admin/products", "POST", true},
		{models.RoleAdmin, "/api/v1/admin/settings", "PUT", true},
		{models.RoleStaff, "/api/v1/admin/orders", "GET", true},
		{models.RoleStaff, "/api/v1/admin/orders/abc", "GET", true},
		{models.RoleStaff, "/api/v1/admin/tickets/abc/messages", "POST", true},
		{models.RoleStaff, "/api/v1/admin/tickets/abc", "PATCH", true},
		{models.RoleStaff, "/api/v1/admin/orders/abc/status", "PATCH", false},
		{models.RoleStaff, "/api/v1/admin/settings", "GET", false},
		{models.RoleCustomer, "/api/v1/admin/orders", "GET", false},
		{"", "/api/v1/admin/dashboard", "GET", false},
	}
	for _, tt := range tests {
		got, err := e.Allowed(tt.role, tt.path, tt.method)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %s %s", tt.role, tt.method, tt.path)
	}
}
