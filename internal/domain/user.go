package domain

import "time"

// UserRole is the position a company employee holds.
type UserRole string

const (
	UserRoleAccountant         UserRole = "accountant"
	UserRoleCorporateSecretary UserRole = "corporateSecretary"
	UserRoleDirector           UserRole = "director"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAccountant, UserRoleCorporateSecretary, UserRoleDirector:
		return true
	}
	return false
}

// User is a company employee that tickets can be assigned to.
type User struct {
	ID        int64
	Name      string
	Role      UserRole
	CompanyID int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
