// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, gormstore, realtime) inside this directory.
package repository

import (
	"context"
	"errors"
)

// Errors every adapter translates its native failures into.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate key")
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidReference = errors.New("invalid reference")
	ErrInvalidValue     = errors.New("value violates a check constraint")
)

// Store is the persistence port: one backend exposing all repositories.
type Store interface {
	Categories() CategoryRepository
	Documents() DocumentRepository
	ActivityLogs() ActivityLogRepository

	// Reset removes all activity entries, documents and categories.
	Reset(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}

// Collection names a top-level collection of the store.
type Collection string

const (
	CollectionCategories   Collection = "categories"
	CollectionDocuments    Collection = "documents"
	CollectionActivityLogs Collection = "activity_logs"
)

// ParseCollection validates a collection name.
func ParseCollection(s string) (Collection, bool) {
	switch c := Collection(s); c {
	case CollectionCategories, CollectionDocuments, CollectionActivityLogs:
		return c, true
	}
	return "", false
}

// Snapshot is the full current content of one collection.
// Items holds []model.Category, []model.Document or []model.ActivityLog.
type Snapshot struct {
	Collection Collection `json:"collection"`
	Items      any        `json:"items"`
}

// Subscriber is implemented by stores that push live updates.
// Each value received is the authoritative latest state, never a delta.
// The returned function unsubscribes and closes the channel; cancelling ctx does the same.
type Subscriber interface {
	Subscribe(ctx context.Context, c Collection) (<-chan Snapshot, func(), error)
}
