package repository

import (
	"context"

	"docarchive/internal/model"
)

// CategoryRepository defines data access for categories.
// Reads populate DocumentCount.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) (*model.Category, error)

	// FindByID returns ErrNotFound if absent and ErrInvalidID if id cannot be a key of this store.
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// FindByName returns ErrNotFound if no category carries exactly this name.
	FindByName(ctx context.Context, name string) (*model.Category, error)

	// List returns all categories ordered by name ascending.
	List(ctx context.Context) ([]model.Category, error)

	Update(ctx context.Context, c *model.Category) (*model.Category, error)

	Delete(ctx context.Context, id string) error
}
