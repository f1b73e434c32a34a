package postgres

import (
	"context"
	"database/sql"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// CategoryPostgres is a PostgreSQL implementation of repository.CategoryRepository.
type CategoryPostgres struct {
	db *sql.DB
}

// NewCategoryPostgres creates a new CategoryPostgres repository.
func NewCategoryPostgres(db *sql.DB) *CategoryPostgres {
	return &CategoryPostgres{db: db}
}

var _ repository.CategoryRepository = (*CategoryPostgres)(nil)

const categorySelect = `
		SELECT c.id, c.name, c.color, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM documents d WHERE d.category_id = c.id) AS document_count
		FROM categories c
	`

func scanCategory(s rowScanner) (*model.Category, error) {
	var (
		id    int64
		color sql.NullString
		out   model.Category
	)
	if err := s.Scan(&id, &out.Name, &color, &out.CreatedAt, &out.UpdatedAt, &out.DocumentCount); err != nil {
		return nil, err
	}
	out.ID = formatID(id)
	out.Color = stringPtr(color)
	return &out, nil
}

// Create inserts a new category row; a taken name yields repository.ErrDuplicate.
func (r *CategoryPostgres) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	const q = `
		INSERT INTO categories (name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, c.Name, nullString(c.Color), c.CreatedAt, c.UpdatedAt).Scan(&id); err != nil {
		return nil, translate(err)
	}
	out := *c
	out.ID = formatID(id)
	out.DocumentCount = 0
	return &out, nil
}

// FindByID fetches a single category with its document count.
func (r *CategoryPostgres) FindByID(ctx context.Context, id string) (*model.Category, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c, err := scanCategory(r.db.QueryRowContext(ctx, categorySelect+` WHERE c.id = $1`, key))
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// FindByName fetches the category carrying exactly this name.
func (r *CategoryPostgres) FindByName(ctx context.Context, name string) (*model.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, categorySelect+` WHERE c.name = $1`, name))
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// List returns all categories ordered by name.
func (r *CategoryPostgres) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, categorySelect+` ORDER BY c.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update renames/recolors a category. Missing rows yield repository.ErrNotFound.
func (r *CategoryPostgres) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	key, err := parseID(c.ID)
	if err != nil {
		return nil, err
	}
	const q = `UPDATE categories SET name = $1, color = $2, updated_at = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, q, c.Name, nullString(c.Color), c.UpdatedAt, key)
	if err != nil {
		return nil, translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

// Delete removes a category. A row still referenced by documents yields repository.ErrInvalidReference.
func (r *CategoryPostgres) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, key)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
