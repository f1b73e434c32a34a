package repository

import (
	"context"

	"docarchive/internal/model"
)

// ActivityLogRepository is the append-only audit trail.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *model.ActivityLog) (*model.ActivityLog, error)

	// List returns the newest entries first, joined with document id/title when the reference is set.
	List(ctx context.Context, limit int) ([]model.ActivityLog, error)

	// DetachDocument nulls the document reference on every entry pointing at documentID.
	DetachDocument(ctx context.Context, documentID string) error
}
