package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentSelect = `
		SELECT d.id, d.title, d.document_number, d.description, d.document_date,
		       d.category_id, d.category_name, d.file_path, d.storage_key, d.file_type,
		       d.file_size, d.status, d.security, d.uploaded_at, d.updated_at,
		       c.id, c.name, c.color, c.created_at, c.updated_at
		FROM documents d
		LEFT JOIN categories c ON c.id = d.category_id
	`

func scanDocument(s rowScanner) (*model.Document, error) {
	var (
		d                    model.Document
		id, categoryID       int64
		number, description  sql.NullString
		docDate              sql.NullTime
		status, security     string
		catID                sql.NullInt64
		catName, catColor    sql.NullString
		catCreated, catUpdtd sql.NullTime
	)
	if err := s.Scan(
		&id,
		&d.Title,
		&number,
		&description,
		&docDate,
		&categoryID,
		&d.CategoryName,
		&d.FilePath,
		&d.StorageKey,
		&d.FileType,
		&d.FileSize,
		&status,
		&security,
		&d.UploadedAt,
		&d.UpdatedAt,
		&catID,
		&catName,
		&catColor,
		&catCreated,
		&catUpdtd,
	); err != nil {
		return nil, err
	}
	d.ID = formatID(id)
	d.CategoryID = formatID(categoryID)
	d.DocumentNumber = stringPtr(number)
	d.Description = stringPtr(description)
	d.DocumentDate = timePtr(docDate)
	d.Status = model.DocumentStatus(status)
	d.Security = model.SecurityLevel(security)
	if catID.Valid {
		d.Category = &model.Category{
			ID:        formatID(catID.Int64),
			Name:      catName.String,
			Color:     stringPtr(catColor),
			CreatedAt: catCreated.Time,
			UpdatedAt: catUpdtd.Time,
		}
	}
	return &d, nil
}

// documentWhere renders the filter as a WHERE clause with positional arguments.
func documentWhere(f model.DocumentFilter) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		ph := next("%" + escapeLike(f.Search) + "%")
		conds = append(conds, fmt.Sprintf("(d.title LIKE %s OR d.description LIKE %s)", ph, ph))
	}
	if f.CategoryID != "" {
		key, err := parseID(f.CategoryID)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, "d.category_id = "+next(key))
	}
	if f.Status != "" {
		conds = append(conds, "d.status = "+next(string(f.Status)))
	}
	if f.StartDate != nil {
		conds = append(conds, "d.uploaded_at >= "+next(*f.StartDate))
	}
	if f.EndDate != nil {
		conds = append(conds, "d.uploaded_at <= "+next(*f.EndDate))
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	categoryKey, err := parseID(doc.CategoryID)
	if err != nil {
		return nil, repository.ErrInvalidReference
	}
	const q = `
		INSERT INTO documents (title, document_number, description, document_date, category_id,
		                       category_name, file_path, storage_key, file_type, file_size,
		                       status, security, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	var id int64
	err = r.db.QueryRowContext(ctx, q,
		doc.Title,
		nullString(doc.DocumentNumber),
		nullString(doc.Description),
		nullTime(doc.DocumentDate),
		categoryKey,
		doc.CategoryName,
		doc.FilePath,
		doc.StorageKey,
		doc.FileType,
		doc.FileSize,
		string(doc.Status),
		string(doc.Security),
		doc.UploadedAt,
		doc.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, translate(err)
	}
	out := *doc
	out.ID = formatID(id)
	return &out, nil
}

// FindByID fetches a single document joined with its category.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	d, err := scanDocument(r.db.QueryRowContext(ctx, documentSelect+` WHERE d.id = $1`, key))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// List returns filtered documents, newest upload first.
func (r *DocumentPostgres) List(ctx context.Context, f model.DocumentFilter) ([]model.Document, error) {
	where, args, err := documentWhere(f)
	if err != nil {
		return nil, err
	}
	q := documentSelect + where + ` ORDER BY d.uploaded_at DESC, d.id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of documents matching the filter.
func (r *DocumentPostgres) Count(ctx context.Context, f model.DocumentFilter) (int, error) {
	where, args, err := documentWhere(f)
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents d`+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Update overwrites the mutable columns of a document.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	key, err := parseID(doc.ID)
	if err != nil {
		return nil, err
	}
	categoryKey, err := parseID(doc.CategoryID)
	if err != nil {
		return nil, repository.ErrInvalidReference
	}
	const q = `
		UPDATE documents
		SET title = $1, document_number = $2, description = $3, document_date = $4,
		    category_id = $5, category_name = $6, file_path = $7, storage_key = $8,
		    file_type = $9, file_size = $10, status = $11, security = $12, updated_at = $13
		WHERE id = $14
	`
	res, err := r.db.ExecContext(ctx, q,
		doc.Title,
		nullString(doc.DocumentNumber),
		nullString(doc.Description),
		nullTime(doc.DocumentDate),
		categoryKey,
		doc.CategoryName,
		doc.FilePath,
		doc.StorageKey,
		doc.FileType,
		doc.FileSize,
		string(doc.Status),
		string(doc.Security),
		doc.UpdatedAt,
		key,
	)
	if err != nil {
		return nil, translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.ErrNotFound
	}
	out := *doc
	return &out, nil
}

// RenameCategory refreshes category_name on the documents of one category.
func (r *DocumentPostgres) RenameCategory(ctx context.Context, categoryID, name string) error {
	key, err := parseID(categoryID)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE documents SET category_name = $1 WHERE category_id = $2`, name, key); err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes a document by ID. Missing rows yield repository.ErrNotFound.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, key)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
