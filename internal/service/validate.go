package service

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docarchive/internal/model"
)

const (
	maxNameLength  = 255
	maxColorLength = 32
)

var (
	statusRule   = validation.In(model.StatusActive, model.StatusArchived).Error("must be ACTIVE or ARCHIVED")
	securityRule = validation.In(model.SecurityPublic, model.SecurityInternal, model.SecurityConfidential).
			Error("must be PUBLIC, INTERNAL or CONFIDENTIAL")
)

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

func (in *CategoryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = trimOptional(in.Color)
}

func (in CategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&in.Color, validation.Length(0, maxColorLength)),
	)
}

// CreateDocumentInput carries the metadata of a new document.
// Status defaults to ACTIVE and Security to INTERNAL.
type CreateDocumentInput struct {
	Title          string               `json:"title"`
	DocumentNumber *string              `json:"documentNumber"`
	Description    *string              `json:"description"`
	DocumentDate   *time.Time           `json:"documentDate"`
	CategoryID     string               `json:"categoryId"`
	FilePath       string               `json:"filePath"`
	FileType       string               `json:"fileType"`
	FileSize       int64                `json:"fileSize"`
	Status         model.DocumentStatus `json:"status"`
	Security       model.SecurityLevel  `json:"security"`
}

func (in *CreateDocumentInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.FilePath = strings.TrimSpace(in.FilePath)
	in.FileType = strings.TrimSpace(in.FileType)
	in.DocumentNumber = trimOptional(in.DocumentNumber)
	if in.Status == "" {
		in.Status = model.StatusActive
	}
	if in.Security == "" {
		in.Security = model.SecurityInternal
	}
}

func (in CreateDocumentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&in.CategoryID, validation.Required),
		validation.Field(&in.FilePath, validation.Required),
		validation.Field(&in.FileType, validation.Required),
		validation.Field(&in.FileSize, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.Status, statusRule),
		validation.Field(&in.Security, securityRule),
	)
}

// UpdateDocumentInput is a partial update; nil fields are left unchanged.
type UpdateDocumentInput struct {
	Title          *string               `json:"title"`
	DocumentNumber *string               `json:"documentNumber"`
	Description    *string               `json:"description"`
	DocumentDate   *time.Time            `json:"documentDate"`
	CategoryID     *string               `json:"categoryId"`
	Status         *model.DocumentStatus `json:"status"`
	Security       *model.SecurityLevel  `json:"security"`
}

func (in *UpdateDocumentInput) normalize() {
	in.Title = trimPtr(in.Title)
	in.CategoryID = trimPtr(in.CategoryID)
	in.DocumentNumber = trimPtr(in.DocumentNumber)
}

func (in UpdateDocumentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty, validation.Length(1, maxNameLength)),
		validation.Field(&in.CategoryID, validation.NilOrNotEmpty),
		validation.Field(&in.Status, validation.NilOrNotEmpty, statusRule),
		validation.Field(&in.Security, validation.NilOrNotEmpty, securityRule),
	)
}

// trimOptional trims s and maps blank values to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// trimPtr trims s but keeps a blank value so validation can reject it.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
