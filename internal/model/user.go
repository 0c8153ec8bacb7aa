package model

import "time"

// Role determines what a user may do. Stored as its string form.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a row in the ttusers table.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	Role         Role
	ProfilePic   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest represents a user registration request.
// Password rules are enforced by the custom userpassword validation.
type RegisterRequest struct {
	UserName string `json:"userName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,userpassword"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// ExistsResponse wraps the boolean result of the email existence check.
type ExistsResponse struct {
	Value bool `json:"value"`
}

// UpdateUserRequest lets a user change their own name and, optionally, password.
// An empty password means "keep the current one".
type UpdateUserRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password,omitempty" validate:"omitempty,userpassword"`
}

// AdminUpdateUserRequest is the admin-only variant that can also reassign roles.
type AdminUpdateUserRequest struct {
	UserName string `json:"userName" validate:"required"`
	Role     Role   `json:"role" validate:"required"`
	Password string `json:"password,omitempty" validate:"omitempty,userpassword"`
}

// UserDetail represents user data safe for API responses (no sensitive fields).
type UserDetail struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
