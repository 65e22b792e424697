// Package applications declares the storage contract for character
// applications.
package applications

import (
	"context"

	"github.com/dmitrijs2005/rpportal/internal/server/models"
)

// Repository stores immutable application records.
type Repository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	// List returns applications newest first.
	List(ctx context.Context, limit, offset int) ([]*models.Application, error)
	Count(ctx context.Context) (int, error)
	// Delete returns common.ErrorNotFound when nothing was removed.
	Delete(ctx context.Context, id string) error
}
