package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docarchive/internal/model"
)

func TestWriteDocuments(t *testing.T) {
	desc := "March invoices"
	docs := []model.Document{
		{
			ID:          "1",
			Title:       "Invoice",
			Description: &desc,
			CategoryID:  "3",
			Category:    &model.Category{ID: "3", Name: "Finance"},
			Status:      model.StatusActive,
			Security:    model.SecurityInternal,
			FileType:    "pdf",
			FileSize:    1024,
			FilePath:    "/f/1.pdf",
			UploadedAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:           "2",
			Title:        "Orphan",
			CategoryID:   "9",
			CategoryName: "Old Category",
			Status:       model.StatusArchived,
			FileType:     "png",
			FileSize:     5,
			UploadedAt:   time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, docs, time.UTC))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Title", rows[0][1])
	assert.Equal(t, "Invoice", rows[1][1])
	assert.Equal(t, "Finance", rows[1][5])
	assert.Equal(t, "1024", rows[1][9])
	assert.Equal(t, "2025-03-01 10:00:00", rows[1][11])
	assert.Equal(t, "Old Category", rows[2][5])
}

func TestWriteDocuments_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
