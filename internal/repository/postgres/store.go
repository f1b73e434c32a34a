package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"docarchive/internal/repository"
)

// Store is the managed-Postgres implementation of repository.Store.
// It uses database/sql with parameterized queries and contains no business logic.
type Store struct {
	db         *sql.DB
	categories *CategoryPostgres
	documents  *DocumentPostgres
	activity   *ActivityLogPostgres
}

var _ repository.Store = (*Store)(nil)

// NewStore wires the Postgres repositories over one connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:         db,
		categories: NewCategoryPostgres(db),
		documents:  NewDocumentPostgres(db),
		activity:   NewActivityLogPostgres(db),
	}
}

func (s *Store) Categories() repository.CategoryRepository      { return s.categories }
func (s *Store) Documents() repository.DocumentRepository       { return s.documents }
func (s *Store) ActivityLogs() repository.ActivityLogRepository { return s.activity }

// Reset deletes all rows in dependency order inside one transaction.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	for _, q := range []string{
		`DELETE FROM activity_logs`,
		`DELETE FROM documents`,
		`DELETE FROM categories`,
	} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("reset %q: %w", q, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
