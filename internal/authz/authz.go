// Package authz decides which roles may call which back-office routes.
package authz

import (
	"fmt"

	"sweetshop/internal/models"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// Policies are the default route permissions: admins may do anything under
// /api/v1/admin, staff may read orders and work support tickets.
var Policies = [][]string{
	{models.RoleAdmin, "/api/v1/admin/*", ".*"},
	{models.RoleStaff, "/api/v1/admin/dashboard", "GET"},
	{models.RoleStaff, "/api/v1/admin/orders", "GET"},
	{models.RoleStaff, "/api/v1/admin/orders/*", "GET"},
	{models.RoleStaff, "/api/v1/admin/tickets", "GET"},
	{models.RoleStaff, "/api/v1/admin/tickets/*", "GET|POST|PATCH"},
}

// Enforcer wraps a casbin enforcer loaded with the route policies.
type Enforcer struct {
	enforcer *casbin.Enforcer
}

// NewEnforcer builds an in-memory enforcer with policies.
func NewEnforcer(policies [][]string) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Casbin enforcer: %w", err)
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("failed to add policy %v: %w", p, err)
		}
	}
	return &Enforcer{enforcer: enforcer}, nil
}

// Allowed reports whether role may perform method on path.
func (e *Enforcer) Allowed(role, path, method string) (bool, error) {
	allowed, err := e.enforcer.Enforce(role, path, method)
	if err != nil {
		return false, fmt.Errorf("casbin permission check failed: %w", err)
	}
	return allowed, nil
}
