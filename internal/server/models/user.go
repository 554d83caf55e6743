// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account roles, matching the user_role enum.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Roles lists every valid role.
var Roles = []string{RoleAdmin, RoleUser}

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
