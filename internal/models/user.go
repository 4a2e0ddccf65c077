package models

import (
	"time"
)

// Role represents staff and customer roles on the platform
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleCustomer   Role = "customer"
)

// Permission actions checked by the HTTP middleware
const (
	PermissionViewServiceHistory = "view_service_history"
	PermissionRecordService      = "record_service"
	PermissionManageUsers        = "manage_users"
)

// User represents a platform user. Staff users are also referenced by
// service records as the person who performed the work.
type User struct {
	ID           int64      `bson:"_id" json:"user_id"`
	Username     string     `bson:"username" json:"username"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password_hash" json:"-"`
	Role         Role       `bson:"role" json:"role"`
	FirstName    string     `bson:"first_name" json:"first_name"`
	LastName     string     `bson:"last_name" json:"last_name"`
	IsActive     bool       `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
}

// FullName joins first and last name with a single space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleTechnician, RoleCustomer:
		return true
	default:
		return false
	}
}

// HasPermission checks if a user has permission for a specific action
func (u *User) HasPermission(action string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return action != PermissionManageUsers
	case RoleTechnician:
		return action == PermissionViewServiceHistory || action == PermissionRecordService
	case RoleCustomer:
		return action == PermissionViewServiceHistory
	default:
		return false
	}
}
