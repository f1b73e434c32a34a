// Package export renders document listings as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"docarchive/internal/model"
)

// SheetName is the worksheet holding the exported rows.
const SheetName = "Documents"

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var documentHeaders = []string{
	"ID", "Title", "Document Number", "Description", "Document Date", "Category",
	"Status", "Security", "File Type", "File Size (bytes)", "File Path", "Uploaded At",
}

// WriteDocuments writes docs as an XLSX workbook to w. Times are rendered in loc.
func WriteDocuments(w io.Writer, docs []model.Document, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, h := range documentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, cell, h)
		f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	for r, d := range docs {
		row := []any{
			d.ID,
			d.Title,
			deref(d.DocumentNumber),
			deref(d.Description),
			formatDate(d.DocumentDate, loc),
			categoryLabel(d),
			string(d.Status),
			string(d.Security),
			d.FileType,
			d.FileSize,
			d.FilePath,
			d.UploadedAt.In(loc).Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	f.SetColWidth(SheetName, "B", "B", 40)
	f.SetColWidth(SheetName, "D", "D", 50)
	f.SetColWidth(SheetName, "K", "K", 50)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02")
}

// categoryLabel prefers the joined category and falls back to the name captured at write time.
func categoryLabel(d model.Document) string {
	if d.Category != nil {
		return d.Category.Name
	}
	return d.CategoryName
}
