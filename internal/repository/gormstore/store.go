// Package gormstore is the ORM-backed relational adapter of repository.Store.
// Uniqueness and foreign keys are enforced by the schema; violations surface as
// repository.ErrDuplicate and repository.ErrInvalidReference.
package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"docarchive/internal/repository"
)

// Store implements repository.Store over a *gorm.DB.
type Store struct {
	db         *gorm.DB
	categories *CategoryGorm
	documents  *DocumentGorm
	activity   *ActivityLogGorm
}

var _ repository.Store = (*Store)(nil)

// NewStore wires the GORM repositories over one database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		categories: &CategoryGorm{db: db},
		documents:  &DocumentGorm{db: db},
		activity:   &ActivityLogGorm{db: db},
	}
}

// Migrate creates or updates the tables in dependency order.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&categoryRow{}, &documentRow{}, &activityRow{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Categories() repository.CategoryRepository      { return s.categories }
func (s *Store) Documents() repository.DocumentRepository       { return s.documents }
func (s *Store) ActivityLogs() repository.ActivityLogRepository { return s.activity }

// Reset deletes every row in dependency order inside one transaction.
func (s *Store) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"activity_logs", "documents", "categories"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
