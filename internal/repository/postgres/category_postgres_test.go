package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

var categoryCols = []string{"id", "name", "color", "created_at", "updated_at", "document_count"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestCategoryPostgres_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO categories").
			WithArgs("Finance", nil, now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		c, err := repo.Create(ctx, &model.Category{Name: "Finance", CreatedAt: now, UpdatedAt: now})

		require.NoError(t, err)
		assert.Equal(t, "7", c.ID)
		assert.Equal(t, "Finance", c.Name)
		assert.Equal(t, 0, c.DocumentCount)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO categories").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(ctx, &model.Category{Name: "Finance", CreatedAt: now, UpdatedAt: now})

		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryPostgres_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(categoryCols).
			AddRow(int64(1), "Finance", "emerald", time.Now(), time.Now(), int64(2))
		mock.ExpectQuery("SELECT (.+) FROM categories c WHERE c.id = ").
			WithArgs(int64(1)).
			WillReturnRows(rows)

		c, err := repo.FindByID(ctx, "1")

		require.NoError(t, err)
		assert.Equal(t, "1", c.ID)
		assert.Equal(t, 2, c.DocumentCount)
		require.NotNil(t, c.Color)
		assert.Equal(t, "emerald", *c.Color)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM categories c WHERE c.id = ").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		c, err := repo.FindByID(ctx, "99")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, c)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "abc")
		assert.ErrorIs(t, err, repository.ErrInvalidID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryPostgres_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryPostgres(db)

	rows := sqlmock.NewRows(categoryCols).
		AddRow(int64(2), "Contracts", nil, time.Now(), time.Now(), int64(0)).
		AddRow(int64(1), "Finance", nil, time.Now(), time.Now(), int64(3))
	mock.ExpectQuery("SELECT (.+) FROM categories c ORDER BY c.name ASC").WillReturnRows(rows)

	items, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Contracts", items[0].Name)
	assert.Nil(t, items[0].Color)
	assert.Equal(t, 3, items[1].DocumentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryPostgres_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE categories SET").
			WithArgs("Legal", nil, now, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, err := repo.Update(ctx, &model.Category{ID: "3", Name: "Legal", UpdatedAt: now})

		require.NoError(t, err)
		assert.Equal(t, "Legal", c.Name)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE categories SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.Update(ctx, &model.Category{ID: "4", Name: "Legal", UpdatedAt: now})

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("rename collides", func(t *testing.T) {
		mock.ExpectExec("UPDATE categories SET").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Update(ctx, &model.Category{ID: "5", Name: "Finance", UpdatedAt: now})

		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryPostgres_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM categories WHERE id = ").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, "1"))

	mock.ExpectExec("DELETE FROM categories WHERE id = ").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "2"), repository.ErrNotFound)

	mock.ExpectExec("DELETE FROM categories WHERE id = ").
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	assert.ErrorIs(t, repo.Delete(ctx, "3"), repository.ErrInvalidReference)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	plain := errors.New("boom")
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), repository.ErrNotFound)
	assert.Equal(t, plain, translate(plain))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\`, escapeLike(`50% off_now \`))
}
