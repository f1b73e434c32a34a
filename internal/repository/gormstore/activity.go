package gormstore

import (
	"context"

	"gorm.io/gorm"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// ActivityLogGorm implements repository.ActivityLogRepository.
type ActivityLogGorm struct {
	db *gorm.DB
}

var _ repository.ActivityLogRepository = (*ActivityLogGorm)(nil)

func (r *ActivityLogGorm) Append(ctx context.Context, entry *model.ActivityLog) (*model.ActivityLog, error) {
	row := activityRow{Action: entry.Action, Timestamp: entry.Timestamp.UTC()}
	if entry.DocumentID != nil {
		key, err := parseID(*entry.DocumentID)
		if err != nil {
			return nil, err
		}
		row.DocumentID = &key
	}
	if err := r.db.WithContext(ctx).Omit("Document").Create(&row).Error; err != nil {
		return nil, translate(err)
	}
	out := *entry
	out.ID = formatID(row.ID)
	return &out, nil
}

func (r *ActivityLogGorm) List(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	var rows []activityRow
	err := r.db.WithContext(ctx).
		Preload("Document", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Order("timestamp DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]model.ActivityLog, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

func (r *ActivityLogGorm) DetachDocument(ctx context.Context, documentID string) error {
	key, err := parseID(documentID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&activityRow{}).
		Where("document_id = ?", key).
		Update("document_id", nil).Error
}
