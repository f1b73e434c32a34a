package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docarchive/internal/domain"
	"docarchive/internal/logging"
	"docarchive/internal/model"
	"docarchive/internal/repository"
	repoMocks "docarchive/internal/repository/mocks"
)

var fixedNow = time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)

func newTestCategoryService(store *repoMocks.MockStore) *categoryService {
	svc := NewCategoryService(store, logging.Discard()).(*categoryService)
	svc.now = func() time.Time { return fixedNow }
	svc.activity.now = svc.now
	return svc
}

func expectActivity(store *repoMocks.MockStore, action string, documentID *string) {
	store.ActivityRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *model.ActivityLog) bool {
		if e.Action != action {
			return false
		}
		if documentID == nil {
			return e.DocumentID == nil
		}
		return e.DocumentID != nil && *e.DocumentID == *documentID
	})).Return(&model.ActivityLog{ID: "a1"}, nil).Once()
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      CategoryInput
		setupMocks func(store *repoMocks.MockStore)
		wantErr    error
	}{
		{
			name:  "happy path",
			input: CategoryInput{Name: "  Finance "},
			setupMocks: func(store *repoMocks.MockStore) {
				store.CategoryRepo.On("FindByName", ctx, "Finance").Return(nil, repository.ErrNotFound).Once()
				store.CategoryRepo.On("Create", ctx, mock.MatchedBy(func(c *model.Category) bool {
					return c.Name == "Finance" && c.CreatedAt.Equal(fixedNow)
				})).Return(&model.Category{ID: "1", Name: "Finance"}, nil).Once()
				expectActivity(store, "Created category: Finance", nil)
			},
		},
		{
			name:       "empty name",
			input:      CategoryInput{Name: "   "},
			setupMocks: func(store *repoMocks.MockStore) {},
			wantErr:    domain.ErrValidation,
		},
		{
			name:  "name already taken",
			input: CategoryInput{Name: "Finance"},
			setupMocks: func(store *repoMocks.MockStore) {
				store.CategoryRepo.On("FindByName", ctx, "Finance").Return(&model.Category{ID: "1", Name: "Finance"}, nil).Once()
			},
			wantErr: domain.ErrConflict,
		},
		{
			name:  "unique violation from the store",
			input: CategoryInput{Name: "Finance"},
			setupMocks: func(store *repoMocks.MockStore) {
				store.CategoryRepo.On("FindByName", ctx, "Finance").Return(nil, repository.ErrNotFound).Once()
				store.CategoryRepo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate).Once()
			},
			wantErr: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repoMocks.NewMockStore()
			tt.setupMocks(store)
			svc := newTestCategoryService(store)

			c, err := svc.Create(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "1", c.ID)
			}
			store.AssertAll(t)
		})
	}
}

func TestCategoryService_Get(t *testing.T) {
	ctx := context.Background()
	store := repoMocks.NewMockStore()
	svc := newTestCategoryService(store)

	store.CategoryRepo.On("FindByID", ctx, "7").Return(&model.Category{ID: "7", Name: "Finance", DocumentCount: 3}, nil).Once()
	store.CategoryRepo.On("FindByID", ctx, "8").Return(nil, repository.ErrNotFound).Once()
	store.CategoryRepo.On("FindByID", ctx, "abc").Return(nil, repository.ErrInvalidID).Once()

	c, err := svc.Get(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, 3, c.DocumentCount)

	_, err = svc.Get(ctx, "8")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrValidation)

	store.AssertAll(t)
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		blue := "blue"
		store.CategoryRepo.On("FindByID", ctx, "1").Return(&model.Category{ID: "1", Name: "Finance", Color: &blue}, nil).Once()
		store.CategoryRepo.On("FindByName", ctx, "Accounting").Return(nil, repository.ErrNotFound).Once()
		store.CategoryRepo.On("Update", ctx, mock.MatchedBy(func(c *model.Category) bool {
			return c.ID == "1" && c.Name == "Accounting" && c.UpdatedAt.Equal(fixedNow) &&
				c.Color != nil && *c.Color == "blue"
		})).Return(&model.Category{ID: "1", Name: "Accounting", Color: &blue}, nil).Once()
		store.DocumentRepo.On("RenameCategory", ctx, "1", "Accounting").Return(nil).Once()
		expectActivity(store, "Updated category ID 1 to: Accounting", nil)

		c, err := svc.Update(ctx, "1", CategoryInput{Name: "Accounting"})
		require.NoError(t, err)
		assert.Equal(t, "Accounting", c.Name)
		require.NotNil(t, c.Color)
		assert.Equal(t, "blue", *c.Color)
		store.AssertAll(t)
	})

	t.Run("new color replaces the old one", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		blue, green := "blue", "green"
		store.CategoryRepo.On("FindByID", ctx, "1").Return(&model.Category{ID: "1", Name: "Finance", Color: &blue}, nil).Once()
		store.CategoryRepo.On("FindByName", ctx, "Finance").Return(&model.Category{ID: "1", Name: "Finance"}, nil).Once()
		store.CategoryRepo.On("Update", ctx, mock.MatchedBy(func(c *model.Category) bool {
			return c.Color != nil && *c.Color == "green"
		})).Return(&model.Category{ID: "1", Name: "Finance", Color: &green}, nil).Once()
		expectActivity(store, "Updated category ID 1 to: Finance", nil)

		_, err := svc.Update(ctx, "1", CategoryInput{Name: "Finance", Color: &green})
		require.NoError(t, err)
		store.AssertAll(t)
	})

	t.Run("document names refresh failure", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		store.CategoryRepo.On("FindByID", ctx, "1").Return(&model.Category{ID: "1", Name: "Finance"}, nil).Once()
		store.CategoryRepo.On("FindByName", ctx, "Accounting").Return(nil, repository.ErrNotFound).Once()
		store.CategoryRepo.On("Update", ctx, mock.Anything).Return(&model.Category{ID: "1", Name: "Accounting"}, nil).Once()
		store.DocumentRepo.On("RenameCategory", ctx, "1", "Accounting").Return(errors.New("locked")).Once()

		_, err := svc.Update(ctx, "1", CategoryInput{Name: "Accounting"})
		assert.EqualError(t, err, "rename category on documents: locked")
		store.AssertAll(t)
	})

	t.Run("keeping its own name is not a conflict", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		store.CategoryRepo.On("FindByID", ctx, "1").Return(&model.Category{ID: "1", Name: "Finance"}, nil).Once()
		store.CategoryRepo.On("FindByName", ctx, "Finance").Return(&model.Category{ID: "1", Name: "Finance"}, nil).Once()
		store.CategoryRepo.On("Update", ctx, mock.Anything).Return(&model.Category{ID: "1", Name: "Finance"}, nil).Once()
		expectActivity(store, "Updated category ID 1 to: Finance", nil)

		_, err := svc.Update(ctx, "1", CategoryInput{Name: "Finance"})
		require.NoError(t, err)
		store.AssertAll(t)
	})

	t.Run("collides with another category", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		store.CategoryRepo.On("FindByID", ctx, "1").Return(&model.Category{ID: "1", Name: "Finance"}, nil).Once()
		store.CategoryRepo.On("FindByName", ctx, "Legal").Return(&model.Category{ID: "2", Name: "Legal"}, nil).Once()

		_, err := svc.Update(ctx, "1", CategoryInput{Name: "Legal"})
		assert.ErrorIs(t, err, domain.ErrConflict)
		store.AssertAll(t)
	})

	t.Run("missing category", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		store.CategoryRepo.On("FindByID", ctx, "9").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Update(ctx, "9", CategoryInput{Name: "Legal"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		store.AssertAll(t)
	})

	t.Run("empty name", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		_, err := svc.Update(ctx, "1", CategoryInput{})
		assert.ErrorIs(t, err, domain.ErrValidation)
		store.AssertAll(t)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	byCategory := func(id string) model.DocumentFilter { return model.DocumentFilter{CategoryID: id} }

	t.Run("has documents", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		store.DocumentRepo.On("Count", ctx, byCategory("1")).Return(2, nil).Once()

		err := svc.Delete(ctx, "1")
		assert.ErrorIs(t, err, domain.ErrConstraint)
		assert.EqualError(t, err, CategoryInUseMessage)
		store.AssertAll(t)
	})

	t.Run("empty category", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		store.DocumentRepo.On("Count", ctx, byCategory("1")).Return(0, nil).Once()
		store.CategoryRepo.On("Delete", ctx, "1").Return(nil).Once()
		expectActivity(store, "Deleted category ID 1", nil)

		require.NoError(t, svc.Delete(ctx, "1"))
		store.AssertAll(t)
	})

	t.Run("missing category", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		store.DocumentRepo.On("Count", ctx, byCategory("9")).Return(0, nil).Once()
		store.CategoryRepo.On("Delete", ctx, "9").Return(repository.ErrNotFound).Once()

		assert.ErrorIs(t, svc.Delete(ctx, "9"), domain.ErrNotFound)
		store.AssertAll(t)
	})

	t.Run("document filed between check and delete", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		store.DocumentRepo.On("Count", ctx, byCategory("1")).Return(0, nil).Once()
		store.CategoryRepo.On("Delete", ctx, "1").Return(repository.ErrInvalidReference).Once()

		assert.ErrorIs(t, svc.Delete(ctx, "1"), domain.ErrConstraint)
		store.AssertAll(t)
	})

	t.Run("activity append failure surfaces", func(t *testing.T) {
		store := repoMocks.NewMockStore()
		svc := newTestCategoryService(store)

		store.DocumentRepo.On("Count", ctx, byCategory("1")).Return(0, nil).Once()
		store.CategoryRepo.On("Delete", ctx, "1").Return(nil).Once()
		store.ActivityRepo.On("Append", mock.Anything, mock.Anything).Return(nil, errors.New("disk full")).Once()

		err := svc.Delete(ctx, "1")
		assert.ErrorContains(t, err, "append activity: disk full")
		store.AssertAll(t)
	})
}
