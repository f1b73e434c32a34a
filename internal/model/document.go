package model

import "time"

// DocumentStatus is the lifecycle state of an archived document.
type DocumentStatus string

const (
	StatusActive   DocumentStatus = "ACTIVE"
	StatusArchived DocumentStatus = "ARCHIVED"
)

// Valid reports whether s is a known status.
func (s DocumentStatus) Valid() bool {
	return s == StatusActive || s == StatusArchived
}

// SecurityLevel is the clearance a document is filed under.
type SecurityLevel string

const (
	SecurityPublic       SecurityLevel = "PUBLIC"
	SecurityInternal     SecurityLevel = "INTERNAL"
	SecurityConfidential SecurityLevel = "CONFIDENTIAL"
)

// Valid reports whether l is a known security level.
func (l SecurityLevel) Valid() bool {
	switch l {
	case SecurityPublic, SecurityInternal, SecurityConfidential:
		return true
	}
	return false
}

// Document represents an archived file plus its descriptive metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// Category is populated on reads; CategoryName is the name captured at write time.
type Document struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	DocumentNumber *string        `json:"documentNumber"`
	Description    *string        `json:"description"`
	DocumentDate   *time.Time     `json:"documentDate"`
	CategoryID     string         `json:"categoryId"`
	CategoryName   string         `json:"categoryName,omitempty"`
	Category       *Category      `json:"category,omitempty"`
	FilePath       string         `json:"filePath"`
	StorageKey     string         `json:"storageKey,omitempty"`
	FileType       string         `json:"fileType"`
	FileSize       int64          `json:"fileSize"`
	Status         DocumentStatus `json:"status"`
	Security       SecurityLevel  `json:"security"`
	UploadedAt     time.Time      `json:"uploadedAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// DocumentFilter narrows document listings. Zero-valued fields impose no constraint.
type DocumentFilter struct {
	Search     string
	CategoryID string
	Status     DocumentStatus
	StartDate  *time.Time
	EndDate    *time.Time
	// Limit caps the number of rows returned; 0 means no cap.
	Limit int
}
