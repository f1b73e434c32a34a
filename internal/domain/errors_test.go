package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
		code     string
	}{
		{"validation", NewValidation("name is required"), ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", NewConflict("category", "category already exists"), ErrConflict, http.StatusBadRequest, "CONFLICT"},
		{"not found", NewNotFound("document", "7"), ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"constraint", NewConstraint("cannot delete category with associated documents"), ErrConstraint, http.StatusBadRequest, "CONSTRAINT_VIOLATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("op: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)

			var httpErr HTTPError
			assert.True(t, errors.As(wrapped, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode())
			assert.Equal(t, tt.code, httpErr.Code())
		})
	}
}

func TestNewNotFound_Message(t *testing.T) {
	err := NewNotFound("category", "3")
	assert.Equal(t, "category not found", err.Error())

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "3", nf.ID)
	assert.NotErrorIs(t, err, ErrConflict)
}
