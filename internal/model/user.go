package model

import "time"

// Roles carried in the access token's "role" claim.
const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

// ValidRole reports whether r is one of the closed set of roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleReader
}

// User represents a row of the `users` table. PasswordHash is never
// serialized.
type User struct {
	ID           uint64    `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
