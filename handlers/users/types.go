package users

import (
	"contesthub/middleware"
	"contesthub/services"
)

// Error messages constants
const (
	ErrUserNotFound       = "User not found"
	ErrUserExists         = "User already exists"
	ErrInvalidRole        = "Invalid role"
	ErrFailedToGetUsers   = "Failed to get users"
	ErrFailedToGetRole    = "Failed to get user role"
	ErrFailedToGetUser    = "Failed to get user"
	ErrFailedToSaveUser   = "Failed to save user"
	ErrFailedToUpdateUser = "Failed to update user"
)

// RegisterUserRequest is the profile sent on first sign-in
type RegisterUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// SetRoleRequest is the body of the role change endpoint
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// RoleResponse is the body of the role lookup endpoint
type RoleResponse struct {
	Role string `json:"role"`
}

type Handler struct {
	users *services.UserService
	roles middleware.RoleLookup
}

func NewHandler(users *services.UserService) *Handler {
	return &Handler{users: users, roles: users}
}
