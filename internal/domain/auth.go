package domain

import "time"

// OperatorRole scopes what an authenticated API caller may do.
type OperatorRole string

const (
	OperatorRoleViewer   OperatorRole = "viewer"
	OperatorRoleOperator OperatorRole = "operator"
	OperatorRoleAdmin    OperatorRole = "admin"
)

// Valid reports whether r is a known operator role.
func (r OperatorRole) Valid() bool {
	switch r {
	case OperatorRoleViewer, OperatorRoleOperator, OperatorRoleAdmin:
		return true
	}
	return false
}

// Token represents issued authentication token metadata.
type Token struct {
	Subject   string
	Role      OperatorRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
