package gormstore

import (
	"time"

	"docarchive/internal/model"
)

// categoryRow is the GORM mapping of the categories table.
type categoryRow struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	Color     *string   `gorm:"size:32"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (categoryRow) TableName() string { return "categories" }

// categoryCountRow is a category read together with its derived document count.
type categoryCountRow struct {
	categoryRow
	DocumentCount int
}

type documentRow struct {
	ID             uint         `gorm:"primaryKey"`
	Title          string       `gorm:"size:255;not null"`
	DocumentNumber *string      `gorm:"size:100"`
	Description    *string      `gorm:"type:text"`
	DocumentDate   *time.Time
	CategoryID     uint         `gorm:"not null;index"`
	Category       *categoryRow `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CategoryName   string       `gorm:"size:255;not null;default:''"`
	FilePath       string       `gorm:"not null"`
	StorageKey     string       `gorm:"not null;default:''"`
	FileType       string       `gorm:"size:100;not null"`
	FileSize       int64        `gorm:"not null"`
	Status         string       `gorm:"size:16;not null;default:ACTIVE;index"`
	Security       string       `gorm:"size:16;not null;default:INTERNAL"`
	UploadedAt     time.Time    `gorm:"not null;index"`
	UpdatedAt      time.Time    `gorm:"not null"`
}

func (documentRow) TableName() string { return "documents" }

// activityRow keeps a nullable document reference; the FK nulls it if a document row disappears.
type activityRow struct {
	ID         uint         `gorm:"primaryKey"`
	Action     string       `gorm:"type:text;not null"`
	DocumentID *uint        `gorm:"index"`
	Document   *documentRow `gorm:"foreignKey:DocumentID;constraint:OnDelete:SET NULL"`
	Timestamp  time.Time    `gorm:"not null;index"`
}

func (activityRow) TableName() string { return "activity_logs" }

func (r categoryRow) toModel(count int) *model.Category {
	return &model.Category{
		ID:            formatID(r.ID),
		Name:          r.Name,
		Color:         r.Color,
		DocumentCount: count,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r documentRow) toModel() *model.Document {
	d := &model.Document{
		ID:             formatID(r.ID),
		Title:          r.Title,
		DocumentNumber: r.DocumentNumber,
		Description:    r.Description,
		DocumentDate:   r.DocumentDate,
		CategoryID:     formatID(r.CategoryID),
		CategoryName:   r.CategoryName,
		FilePath:       r.FilePath,
		StorageKey:     r.StorageKey,
		FileType:       r.FileType,
		FileSize:       r.FileSize,
		Status:         model.DocumentStatus(r.Status),
		Security:       model.SecurityLevel(r.Security),
		UploadedAt:     r.UploadedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Category != nil {
		d.Category = r.Category.toModel(0)
	}
	return d
}

func (r activityRow) toModel() model.ActivityLog {
	e := model.ActivityLog{
		ID:        formatID(r.ID),
		Action:    r.Action,
		Timestamp: r.Timestamp,
	}
	if r.DocumentID != nil {
		ref := formatID(*r.DocumentID)
		e.DocumentID = &ref
		if r.Document != nil {
			e.Document = &model.DocumentRef{ID: ref, Title: r.Document.Title}
		}
	}
	return e
}
