// Package models defines the server-side domain types.
package models

import (
	"strings"

	"github.com/landchain/landchain/internal/common"
)

// Role is one of the three fixed LandChain roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleGovernment Role = "government"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleUser, RoleGovernment}

// ParseRole accepts a role name in any case, surrounding blanks ignored.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", common.ErrInvalidRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGovernment:
		return true
	}
	return false
}

// DashboardPath is the URL path of the dashboard owned by r.
func (r Role) DashboardPath() string {
	return "/" + string(r) + "/dashboard"
}

func (r Role) String() string { return string(r) }
