package auth

import (
	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/roles"
)

// Authorize checks that actor may perform an operation needing required.
// A nil actor yields common.ErrorUnauthenticated and an insufficient role
// common.ErrorForbidden. On success a copy of the actor is returned with an
// empty role normalized to roles.User.
func Authorize(actor *Actor, required roles.Role) (*Actor, error) {
	if actor == nil || actor.ID == "" {
		return nil, common.ErrorUnauthenticated
	}

	normalized := *actor
	if normalized.Role == "" {
		normalized.Role = roles.User
	}

	if !roles.HasMinimumRole(normalized.Role, required) {
		return nil, common.ErrorForbidden
	}
	return &normalized, nil
}
