package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role is a coarse capability grouping assigned to a user account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is a storefront account. PasswordHash never leaves the domain layer.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Roles returns the role claim set carried in access tokens.
func (u *User) Roles() []string {
	return []string{string(u.Role)}
}
