package model

import "time"

// DocumentRef is the minimal document info joined onto activity entries.
type DocumentRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ActivityLog is an audit record of one mutating operation.
// DocumentID is a weak reference: it is nulled, never cascaded, when the document goes away.
type ActivityLog struct {
	ID         string       `json:"id"`
	Action     string       `json:"action"`
	DocumentID *string      `json:"documentId"`
	Document   *DocumentRef `json:"document"`
	Timestamp  time.Time    `json:"timestamp"`
}

// DashboardSummary is the read-only aggregate shown on the dashboard.
type DashboardSummary struct {
	TotalDocuments    int        `json:"totalDocuments"`
	ArchivedDocuments int        `json:"archivedDocuments"`
	TotalCategories   int        `json:"totalCategories"`
	RecentDocuments   []Document `json:"recentDocuments"`
}
