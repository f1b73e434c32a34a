package postgres

import (
	"context"
	"database/sql"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// ActivityLogPostgres is a PostgreSQL implementation of repository.ActivityLogRepository.
type ActivityLogPostgres struct {
	db *sql.DB
}

// NewActivityLogPostgres creates a new ActivityLogPostgres repository.
func NewActivityLogPostgres(db *sql.DB) *ActivityLogPostgres {
	return &ActivityLogPostgres{db: db}
}

var _ repository.ActivityLogRepository = (*ActivityLogPostgres)(nil)

// Append inserts one audit entry.
func (r *ActivityLogPostgres) Append(ctx context.Context, entry *model.ActivityLog) (*model.ActivityLog, error) {
	var docKey sql.NullInt64
	if entry.DocumentID != nil {
		key, err := parseID(*entry.DocumentID)
		if err != nil {
			return nil, err
		}
		docKey = sql.NullInt64{Int64: key, Valid: true}
	}
	const q = `
		INSERT INTO activity_logs (action, document_id, timestamp)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, entry.Action, docKey, entry.Timestamp).Scan(&id); err != nil {
		return nil, translate(err)
	}
	out := *entry
	out.ID = formatID(id)
	return &out, nil
}

// List returns the newest entries first with the referenced document's id and title.
func (r *ActivityLogPostgres) List(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	const q = `
		SELECT a.id, a.action, a.document_id, a.timestamp, d.title
		FROM activity_logs a
		LEFT JOIN documents d ON d.id = a.document_id
		ORDER BY a.timestamp DESC, a.id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ActivityLog, 0)
	for rows.Next() {
		var (
			e     model.ActivityLog
			id    int64
			docID sql.NullInt64
			title sql.NullString
		)
		if err := rows.Scan(&id, &e.Action, &docID, &e.Timestamp, &title); err != nil {
			return nil, err
		}
		e.ID = formatID(id)
		if docID.Valid {
			ref := formatID(docID.Int64)
			e.DocumentID = &ref
			if title.Valid {
				e.Document = &model.DocumentRef{ID: ref, Title: title.String}
			}
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DetachDocument nulls the reference on every entry pointing at the document.
func (r *ActivityLogPostgres) DetachDocument(ctx context.Context, documentID string) error {
	key, err := parseID(documentID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE activity_logs SET document_id = NULL WHERE document_id = $1`, key)
	return err
}
