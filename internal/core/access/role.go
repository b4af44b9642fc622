// Package access defines caller roles. Authenticating a caller is an external concern;
// the store only consumes the role the host resolved.
package access

import (
	"strings"

	"github.com/example/blotter/internal/errs"
)

// Role is the role of the caller performing a workflow action.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleOfficer Role = "Officer"
	RoleClerk   Role = "Clerk"
	RoleUser    Role = "User"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleOfficer, RoleClerk, RoleUser}
}

// ParseRole accepts a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", errs.Validation("role", "unknown role %q", s)
}

// CanManageCases reports whether the role may drive case workflows
// (status changes, hearings, summons, resolutions).
func CanManageCases(r Role) bool {
	return r == RoleAdmin || r == RoleOfficer
}

// CanFileCases reports whether the role may file new cases.
func CanFileCases(r Role) bool {
	return r != ""
}
