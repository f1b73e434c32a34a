package gormstore

import (
	"context"

	"gorm.io/gorm"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// DocumentGorm implements repository.DocumentRepository.
type DocumentGorm struct {
	db *gorm.DB
}

var _ repository.DocumentRepository = (*DocumentGorm)(nil)

// filterScope applies the set fields of f; unset fields add no condition.
func filterScope(f model.DocumentFilter) (func(*gorm.DB) *gorm.DB, error) {
	var categoryKey uint
	if f.CategoryID != "" {
		key, err := parseID(f.CategoryID)
		if err != nil {
			return nil, err
		}
		categoryKey = key
	}
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			p := likePattern(f.Search)
			db = db.Where(`(documents.title LIKE ? ESCAPE '\' OR documents.description LIKE ? ESCAPE '\')`, p, p)
		}
		if categoryKey != 0 {
			db = db.Where("documents.category_id = ?", categoryKey)
		}
		if f.Status != "" {
			db = db.Where("documents.status = ?", string(f.Status))
		}
		if f.StartDate != nil {
			db = db.Where("documents.uploaded_at >= ?", f.StartDate.UTC())
		}
		if f.EndDate != nil {
			db = db.Where("documents.uploaded_at <= ?", f.EndDate.UTC())
		}
		return db
	}, nil
}

func toRow(doc *model.Document) (documentRow, error) {
	categoryKey, err := parseID(doc.CategoryID)
	if err != nil {
		return documentRow{}, repository.ErrInvalidReference
	}
	return documentRow{
		Title:          doc.Title,
		DocumentNumber: doc.DocumentNumber,
		Description:    doc.Description,
		DocumentDate:   doc.DocumentDate,
		CategoryID:     categoryKey,
		CategoryName:   doc.CategoryName,
		FilePath:       doc.FilePath,
		StorageKey:     doc.StorageKey,
		FileType:       doc.FileType,
		FileSize:       doc.FileSize,
		Status:         string(doc.Status),
		Security:       string(doc.Security),
		UploadedAt:     doc.UploadedAt.UTC(),
		UpdatedAt:      doc.UpdatedAt.UTC(),
	}, nil
}

func (r *DocumentGorm) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	row, err := toRow(doc)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Omit("Category").Create(&row).Error; err != nil {
		return nil, translate(err)
	}
	out := *doc
	out.ID = formatID(row.ID)
	return &out, nil
}

func (r *DocumentGorm) FindByID(ctx context.Context, id string) (*model.Document, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row documentRow
	if err := r.db.WithContext(ctx).Preload("Category").Take(&row, key).Error; err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (r *DocumentGorm) List(ctx context.Context, f model.DocumentFilter) ([]model.Document, error) {
	scope, err := filterScope(f)
	if err != nil {
		return nil, err
	}
	q := r.db.WithContext(ctx).Preload("Category").Scopes(scope).
		Order("documents.uploaded_at DESC").Order("documents.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []documentRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]model.Document, 0, len(rows))
	for _, row := range rows {
		items = append(items, *row.toModel())
	}
	return items, nil
}

func (r *DocumentGorm) Count(ctx context.Context, f model.DocumentFilter) (int, error) {
	scope, err := filterScope(f)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&documentRow{}).Scopes(scope).Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *DocumentGorm) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	key, err := parseID(doc.ID)
	if err != nil {
		return nil, err
	}
	row, err := toRow(doc)
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Model(&documentRow{}).Where("id = ?", key).Updates(map[string]any{
		"title":           row.Title,
		"document_number": row.DocumentNumber,
		"description":     row.Description,
		"document_date":   row.DocumentDate,
		"category_id":     row.CategoryID,
		"category_name":   row.CategoryName,
		"file_path":       row.FilePath,
		"storage_key":     row.StorageKey,
		"file_type":       row.FileType,
		"file_size":       row.FileSize,
		"status":          row.Status,
		"security":        row.Security,
		"updated_at":      row.UpdatedAt,
	})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	out := *doc
	return &out, nil
}

func (r *DocumentGorm) RenameCategory(ctx context.Context, categoryID, name string) error {
	key, err := parseID(categoryID)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Model(&documentRow{}).
		Where("category_id = ?", key).
		Update("category_name", name).Error
	return translate(err)
}

func (r *DocumentGorm) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&documentRow{}, key)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
