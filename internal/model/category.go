package model

import "time"

// Category is a named grouping that documents are filed under.
type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Color         *string   `json:"color"`
	DocumentCount int       `json:"documentCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
