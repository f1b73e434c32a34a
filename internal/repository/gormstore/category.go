package gormstore

import (
	"context"

	"gorm.io/gorm"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// CategoryGorm implements repository.CategoryRepository.
type CategoryGorm struct {
	db *gorm.DB
}

var _ repository.CategoryRepository = (*CategoryGorm)(nil)

const categoryCountSelect = "categories.*, " +
	"(SELECT COUNT(*) FROM documents WHERE documents.category_id = categories.id) AS document_count"

func (r *CategoryGorm) withCount(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("categories").Select(categoryCountSelect)
}

func (r *CategoryGorm) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	row := categoryRow{
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.toModel(0), nil
}

func (r *CategoryGorm) FindByID(ctx context.Context, id string) (*model.Category, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row categoryCountRow
	if err := r.withCount(ctx).Where("categories.id = ?", key).Take(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.toModel(row.DocumentCount), nil
}

func (r *CategoryGorm) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var row categoryCountRow
	if err := r.withCount(ctx).Where("categories.name = ?", name).Take(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.toModel(row.DocumentCount), nil
}

func (r *CategoryGorm) List(ctx context.Context) ([]model.Category, error) {
	var rows []categoryCountRow
	if err := r.withCount(ctx).Order("categories.name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		items = append(items, *row.toModel(row.DocumentCount))
	}
	return items, nil
}

func (r *CategoryGorm) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	key, err := parseID(c.ID)
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Model(&categoryRow{}).Where("id = ?", key).Updates(map[string]any{
		"name":       c.Name,
		"color":      c.Color,
		"updated_at": c.UpdatedAt,
	})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

// Delete removes a category; the RESTRICT foreign key rejects it while documents reference it.
func (r *CategoryGorm) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&categoryRow{}, key)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
