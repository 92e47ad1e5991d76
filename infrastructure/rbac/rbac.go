package rbac

import "strings"

// Role is the closed set of privilege tiers. Stored as text but never
// compared as free-form strings outside this package.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleRepartidor Role = "repartidor"
)

// Parse maps a stored role value onto the enum. Unknown values come back
// with ok=false so callers fail closed.
func Parse(v string) (Role, bool) {
	switch Role(strings.TrimSpace(strings.ToLower(v))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleRepartidor:
		return RoleRepartidor, true
	default:
		return "", false
	}
}

func (r Role) String() string { return string(r) }

// Scope is the resolved tenancy context for one request: which user is
// acting, under which company, with which role. Every repository operation
// takes a Scope and filters by it; call sites never hand-roll company
// filters.
type Scope struct {
	UserID    int64
	CompanyID int64
	Role      Role
	Username  string
}

func (s Scope) IsAdmin() bool { return s.Role == RoleAdmin }

func (s Scope) IsRepartidor() bool { return s.Role == RoleRepartidor }

// CanTouchParte applies the ownership rule: a repartidor may only touch
// their own partes; an admin may touch any parte in their company.
func (s Scope) CanTouchParte(ownerUserID, companyID int64) bool {
	switch s.Role {
	case RoleAdmin:
		return companyID == s.CompanyID
	case RoleRepartidor:
		return ownerUserID == s.UserID
	default:
		return false
	}
}
