package domain

import "time"

// Portal roles. Role gates what a signed-in user may do; the auth service
// itself only distinguishes admin (may provision accounts) from everyone
// else.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleClient  = "client"
)

// ValidRole reports whether role is one of the portal roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleClient:
		return true
	}
	return false
}

type User struct {
	ID    string
	Email string
	Name  string
	Role  string

	// PasswordHash is the scrypt credential in "<keyHex>.<saltHex>" form.
	// The plaintext never touches storage or logs.
	PasswordHash string

	// PasswordResetRequired is set while the account is on an admin-issued
	// temporary password; the user must change it on their next
	// authenticated action.
	PasswordResetRequired bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
