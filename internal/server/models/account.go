// Package models defines the records persisted by the portal server.
package models

import (
	"time"

	"github.com/dmitrijs2005/rpportal/internal/roles"
)

// Account is a registered member. PasswordHash never leaves the server.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Handle       *string    `json:"handle,omitempty"`
	GameUUID     string     `json:"gameUuid,omitempty"`
	PasswordHash string     `json:"-"`
	Role         roles.Role `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// AccountSummary is an account as listed in the admin dashboard.
type AccountSummary struct {
	Account
	SessionCount int `json:"sessionCount"`
}
