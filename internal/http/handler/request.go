package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"docarchive/internal/domain"
	"docarchive/internal/model"
	"docarchive/internal/service"
)

const dateOnly = "2006-01-02"

// flexString accepts a JSON string or number; clients send categoryId either way.
type flexString struct {
	value *string
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		f.value = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f.value = &s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number")
	}
	s := n.String()
	f.value = &s
	return nil
}

// flexInt64 accepts a JSON number or a numeric string.
type flexInt64 struct {
	value *int64
}

func (f *flexInt64) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s.value == nil {
		f.value = nil
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*s.value), 10, 64)
	if err != nil {
		return fmt.Errorf("expected an integer")
	}
	f.value = &n
	return nil
}

// flexDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
type flexDate struct {
	value *time.Time
}

func (f *flexDate) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s.value == nil || strings.TrimSpace(*s.value) == "" {
		f.value = nil
		return nil
	}
	t, err := parseDate(*s.value, time.UTC, false)
	if err != nil {
		return err
	}
	f.value = &t
	return nil
}

// documentBody is the JSON shape of create and update requests.
type documentBody struct {
	Title          *string    `json:"title"`
	DocumentNumber *string    `json:"documentNumber"`
	Description    *string    `json:"description"`
	DocumentDate   flexDate   `json:"documentDate"`
	CategoryID     flexString `json:"categoryId"`
	FilePath       *string    `json:"filePath"`
	FileType       *string    `json:"fileType"`
	FileSize       flexInt64  `json:"fileSize"`
	Status         *string    `json:"status"`
	Security       *string    `json:"security"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (b documentBody) createInput() service.CreateDocumentInput {
	return service.CreateDocumentInput{
		Title:          deref(b.Title),
		DocumentNumber: b.DocumentNumber,
		Description:    b.Description,
		DocumentDate:   b.DocumentDate.value,
		CategoryID:     deref(b.CategoryID.value),
		FilePath:       deref(b.FilePath),
		FileType:       deref(b.FileType),
		FileSize:       deref(b.FileSize.value),
		Status:         model.DocumentStatus(deref(b.Status)),
		Security:       model.SecurityLevel(deref(b.Security)),
	}
}

func (b documentBody) updateInput() service.UpdateDocumentInput {
	in := service.UpdateDocumentInput{
		Title:          b.Title,
		DocumentNumber: b.DocumentNumber,
		Description:    b.Description,
		DocumentDate:   b.DocumentDate.value,
		CategoryID:     b.CategoryID.value,
	}
	if b.Status != nil {
		s := model.DocumentStatus(*b.Status)
		in.Status = &s
	}
	if b.Security != nil {
		s := model.SecurityLevel(*b.Security)
		in.Security = &s
	}
	return in
}

// formBody reads the same fields from a multipart form. Absent fields stay nil.
func formBody(c *fiber.Ctx) (documentBody, error) {
	var b documentBody
	form, err := c.MultipartForm()
	if err != nil {
		return b, domain.NewValidation("invalid multipart form")
	}
	get := func(key string) *string {
		if v, ok := form.Value[key]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}

	b.Title = get("title")
	b.DocumentNumber = get("documentNumber")
	b.Description = get("description")
	b.CategoryID.value = get("categoryId")
	b.FilePath = get("filePath")
	b.FileType = get("fileType")
	b.Status = get("status")
	b.Security = get("security")
	if v := get("documentDate"); v != nil && strings.TrimSpace(*v) != "" {
		t, err := parseDate(*v, time.UTC, false)
		if err != nil {
			return b, domain.NewValidation("documentDate: " + err.Error())
		}
		b.DocumentDate.value = &t
	}
	if v := get("fileSize"); v != nil && strings.TrimSpace(*v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(*v), 10, 64)
		if err != nil {
			return b, domain.NewValidation("fileSize: expected an integer")
		}
		b.FileSize.value = &n
	}
	return b, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// parseDate accepts RFC 3339 or YYYY-MM-DD. With endOfDay, a date-only value
// covers the whole day in loc.
func parseDate(s string, loc *time.Location, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t.UTC(), nil
}

// documentFilter builds a filter from the list/export query string.
func documentFilter(c *fiber.Ctx, loc *time.Location) (model.DocumentFilter, error) {
	f := model.DocumentFilter{
		Search:     c.Query("search"),
		CategoryID: strings.TrimSpace(c.Query("categoryId")),
		Status:     model.DocumentStatus(strings.TrimSpace(c.Query("status"))),
	}
	if v := c.Query("startDate"); v != "" {
		t, err := parseDate(v, loc, false)
		if err != nil {
			return f, domain.NewValidation("startDate: " + err.Error())
		}
		f.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseDate(v, loc, true)
		if err != nil {
			return f, domain.NewValidation("endDate: " + err.Error())
		}
		f.EndDate = &t
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, domain.NewValidation("endDate must not be before startDate")
	}
	return f, nil
}
