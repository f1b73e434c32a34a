package repository

import (
	"context"

	"docarchive/internal/model"
)

// DocumentRepository defines data access for documents.
// No business logic here, only persistence.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored record (IDs and defaults filled in).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document joined with its category. Returns ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns documents matching the filter ordered by upload time, newest first.
	List(ctx context.Context, f model.DocumentFilter) ([]model.Document, error)

	// Count returns the number of documents matching the filter. Limit is ignored.
	Count(ctx context.Context, f model.DocumentFilter) (int, error)

	// Update overwrites the mutable columns of an existing document. Returns ErrNotFound if absent.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// RenameCategory rewrites the denormalized category name of every document filed under categoryID.
	RenameCategory(ctx context.Context, categoryID, name string) error

	// Delete removes a document by ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}
