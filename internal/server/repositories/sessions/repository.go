// Package sessions declares the storage contract for refresh sessions.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/server/models"
)

// Repository issues, looks up and revokes refresh sessions.
type Repository interface {
	// Create stores s. ID and CreatedAt are filled in when empty.
	Create(ctx context.Context, s *models.Session) error

	// Find returns the session for token, or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session by token. A missing token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByAccount revokes every session of an account.
	DeleteByAccount(ctx context.Context, accountID string) (int64, error)

	// CountActive counts sessions that expire after now.
	CountActive(ctx context.Context, now time.Time) (int, error)

	// DeleteExpired purges sessions that expired at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
