package models

import "time"

// User is an account that can sign in. Role tags live in user_roles.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"fullName" db:"full_name"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	Roles        RoleSet   `json:"roles"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Identity is a resolved caller: who they are and which role tags they hold.
// It is passed explicitly to every authorization-sensitive operation.
type Identity struct {
	UserID int64   `json:"userId"`
	Roles  RoleSet `json:"roles"`
}

// Identity returns the caller view of the user.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Roles: u.Roles}
}

// NewStaffIdentity carries the account details for a staff member about to be created.
type NewStaffIdentity struct {
	Email    string
	Password string
	FullName string
}
