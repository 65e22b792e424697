// Package roles defines the three membership tiers and the ordering used
// by every authorization check.
package roles

import (
	"fmt"
	"strings"
)

// Role is a membership tier as stored on an account. Values outside the
// three constants are kept verbatim and rank below User.
type Role string

const (
	User      Role = "USER"
	Moderator Role = "MODERATOR"
	Admin     Role = "ADMIN"
)

// All lists the known roles from lowest to highest.
func All() []Role { return []Role{User, Moderator, Admin} }

// Rank orders roles: User=1, Moderator=2, Admin=3, anything else 0.
func Rank(r Role) int {
	switch r {
	case User:
		return 1
	case Moderator:
		return 2
	case Admin:
		return 3
	default:
		return 0
	}
}

func (r Role) Valid() bool { return Rank(r) > 0 }

func (r Role) String() string { return string(r) }

// Parse accepts a role name in any case.
func Parse(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func IsAdmin(r Role) bool { return r == Admin }

// IsModerator is true for moderators and admins.
func IsModerator(r Role) bool { return r == Moderator || r == Admin }

// HasMinimumRole reports whether r is at least minimum. An unknown minimum
// is never met.
func HasMinimumRole(r, minimum Role) bool {
	need := Rank(minimum)
	if need == 0 {
		return false
	}
	return Rank(r) >= need
}

// Actions lists what a role may do in the admin interface.
type Actions struct {
	CanViewUsers       bool `json:"canViewUsers"`
	CanEditUsers       bool `json:"canEditUsers"`
	CanDeleteUsers     bool `json:"canDeleteUsers"`
	CanViewAdminPanel  bool `json:"canViewAdminPanel"`
	CanManageServer    bool `json:"canManageServer"`
	CanViewLogs        bool `json:"canViewLogs"`
	CanModerateContent bool `json:"canModerateContent"`
}

func Capabilities(r Role) Actions {
	var a Actions
	if IsModerator(r) {
		a.CanModerateContent = true
		a.CanViewLogs = true
	}
	if IsAdmin(r) {
		a.CanViewUsers = true
		a.CanEditUsers = true
		a.CanDeleteUsers = true
		a.CanViewAdminPanel = true
		a.CanManageServer = true
	}
	return a
}
