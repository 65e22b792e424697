// Package accounts declares the storage contract for member accounts.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
)

// Repository stores accounts. Lookups of a missing row return
// common.ErrorNotFound; unique constraint failures return common.ErrorConflict
// carrying a public reason.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// FindByEmailOrHandle returns the first account using either value.
	FindByEmailOrHandle(ctx context.Context, email, handle string) (*models.Account, error)

	// List pages through accounts, newest first, whose email, name or handle
	// contains search (case-insensitive). An empty search matches everything.
	List(ctx context.Context, search string, limit, offset int) ([]*models.AccountSummary, error)
	Count(ctx context.Context, search string) (int, error)

	UpdateRole(ctx context.Context, id string, role roles.Role) (*models.Account, error)
	Delete(ctx context.Context, id string) error

	CountAll(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role roles.Role) (int, error)
	// CountCreatedBetween counts accounts created in [from, to).
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	Latest(ctx context.Context, n int) ([]*models.Account, error)
}
