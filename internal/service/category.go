package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docarchive/internal/domain"
	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// CategoryInUseMessage is the constraint message for deleting a category that still files documents.
const CategoryInUseMessage = "cannot delete category with associated documents"

// CategoryService defines the use cases for managing categories.
type CategoryService interface {
	// Create fails with a ValidationError for an empty name and a ConflictError for a taken one.
	Create(ctx context.Context, in CategoryInput) (*model.Category, error)

	// Get returns the category with its document count.
	Get(ctx context.Context, id string) (*model.Category, error)

	// List returns all categories ordered by name, each with its document count.
	List(ctx context.Context) ([]model.Category, error)

	Update(ctx context.Context, id string, in CategoryInput) (*model.Category, error)

	// Delete fails with a ConstraintError while any document references the category.
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	store    repository.Store
	activity activityRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewCategoryService constructs a CategoryService over store.
func NewCategoryService(store repository.Store, logger *slog.Logger) CategoryService {
	return &categoryService{
		store:    store,
		activity: activityRecorder{logs: store.ActivityLogs(), logger: logger, now: clock},
		logger:   logger,
		now:      clock,
	}
}

// ensureNameFree returns a ConflictError if another category already uses name.
func (s *categoryService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.store.Categories().FindByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("find category by name: %w", err)
	case existing.ID == selfID:
		return nil
	default:
		return domain.NewConflict(resourceCategory, "category name already exists")
	}
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, validationErr(err)
	}
	if err := s.ensureNameFree(ctx, in.Name, ""); err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.store.Categories().Create(ctx, &model.Category{
		Name:      in.Name,
		Color:     in.Color,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, mapRepoErr(err, resourceCategory, "")
	}

	if err := s.activity.record(ctx, "Created category: "+created.Name, nil); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "category created", "category_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, resourceCategory, id)
	}
	return c, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	items, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

func (s *categoryService) Update(ctx context.Context, id string, in CategoryInput) (*model.Category, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, validationErr(err)
	}

	current, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, resourceCategory, id)
	}
	if err := s.ensureNameFree(ctx, in.Name, current.ID); err != nil {
		return nil, err
	}

	renamed := current.Name != in.Name
	current.Name = in.Name
	if in.Color != nil {
		current.Color = in.Color
	}
	current.UpdatedAt = s.now()
	updated, err := s.store.Categories().Update(ctx, current)
	if err != nil {
		return nil, mapRepoErr(err, resourceCategory, id)
	}
	if renamed {
		if err := s.store.Documents().RenameCategory(ctx, updated.ID, updated.Name); err != nil {
			return nil, fmt.Errorf("rename category on documents: %w", err)
		}
	}

	if err := s.activity.record(ctx, fmt.Sprintf("Updated category ID %s to: %s", id, updated.Name), nil); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "category updated", "category_id", id, "name", updated.Name)
	return updated, nil
}

// Delete checks the reference count first. Two concurrent deletes can both pass the check;
// relational stores still reject the second through the foreign key.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	n, err := s.store.Documents().Count(ctx, model.DocumentFilter{CategoryID: id})
	if err != nil {
		return mapRepoErr(err, resourceCategory, id)
	}
	if n > 0 {
		return domain.NewConstraint(CategoryInUseMessage)
	}

	if err := s.store.Categories().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return domain.NewConstraint(CategoryInUseMessage)
		}
		return mapRepoErr(err, resourceCategory, id)
	}

	if err := s.activity.record(ctx, "Deleted category ID "+id, nil); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "category deleted", "category_id", id)
	return nil
}
