package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"time"

	"github.com/gofiber/fiber/v2"

	"docarchive/internal/domain"
	"docarchive/internal/export"
	"docarchive/internal/model"
	"docarchive/internal/service"
)

// DocumentHandlers serves the /documents routes.
type DocumentHandlers struct {
	svc    service.DocumentService
	logger *slog.Logger
	loc    *time.Location
}

// NewDocumentHandlers constructs the document handlers. loc is used for date-only query filters.
func NewDocumentHandlers(svc service.DocumentService, logger *slog.Logger, loc *time.Location) *DocumentHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &DocumentHandlers{svc: svc, logger: logger, loc: loc}
}

type presignResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// bindDocument reads the request as multipart form or JSON. The returned file is nil
// when no "file" part was sent; the caller must close it.
func bindDocument(c *fiber.Ctx) (documentBody, multipart.File, *service.FileUpload, error) {
	if !isMultipart(c) {
		var b documentBody
		if err := json.Unmarshal(c.Body(), &b); err != nil {
			return b, nil, nil, domain.NewValidation("invalid request body")
		}
		return b, nil, nil, nil
	}

	b, err := formBody(c)
	if err != nil {
		return b, nil, nil, err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return b, nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return b, nil, nil, domain.NewValidation("cannot open uploaded file")
	}
	return b, f, &service.FileUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
	}, nil
}

// List returns documents matching the query filters.
//
//	@Summary	List documents
//	@Tags		documents
//	@Produce	json
//	@Param		search		query	string	false	"substring of title or description"
//	@Param		categoryId	query	string	false	"category id"
//	@Param		status		query	string	false	"ACTIVE or ARCHIVED"
//	@Param		startDate	query	string	false	"YYYY-MM-DD or RFC 3339"
//	@Param		endDate		query	string	false	"YYYY-MM-DD (whole day) or RFC 3339"
//	@Success	200			{array}	model.Document
//	@Failure	400			{object}	errorPayload
//	@Router		/documents [get]
func (h *DocumentHandlers) List(c *fiber.Ctx) error {
	f, err := documentFilter(c, h.loc)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	docs, err := h.svc.List(c.UserContext(), f)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.JSON(docs)
}

// Export renders the filtered documents as an XLSX workbook.
//
//	@Summary	Export documents
//	@Tags		documents
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success	200
//	@Router		/documents/export [get]
func (h *DocumentHandlers) Export(c *fiber.Ctx) error {
	f, err := documentFilter(c, h.loc)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	var buf bytes.Buffer
	if err := h.svc.Export(c.UserContext(), f, &buf); err != nil {
		return writeServiceError(c, h.logger, err)
	}
	name := fmt.Sprintf("documents-%s.xlsx", time.Now().In(h.loc).Format("20060102"))
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(buf.Bytes())
}

// Create records a document. Multipart requests with a "file" part are uploaded to
// object storage; JSON requests carry metadata for an externally stored file.
//
//	@Summary	Create document
//	@Tags		documents
//	@Accept		json,mpfd
//	@Produce	json
//	@Success	201	{object}	model.Document
//	@Failure	400	{object}	errorPayload
//	@Router		/documents [post]
func (h *DocumentHandlers) Create(c *fiber.Ctx) error {
	body, f, file, err := bindDocument(c)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if f != nil {
		defer f.Close()
	}

	in := body.createInput()
	var doc *model.Document
	if file != nil {
		doc, err = h.svc.Upload(c.UserContext(), in, *file)
	} else {
		doc, err = h.svc.Create(c.UserContext(), in)
	}
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Get returns one document with its category.
//
//	@Summary	Get document
//	@Tags		documents
//	@Produce	json
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	model.Document
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id} [get]
func (h *DocumentHandlers) Get(c *fiber.Ctx) error {
	doc, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.JSON(doc)
}

// Update applies a partial update, optionally replacing the stored file.
//
//	@Summary	Update document
//	@Tags		documents
//	@Accept		json,mpfd
//	@Produce	json
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	model.Document
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id} [put]
func (h *DocumentHandlers) Update(c *fiber.Ctx) error {
	body, f, file, err := bindDocument(c)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if f != nil {
		defer f.Close()
	}

	doc, err := h.svc.Update(c.UserContext(), c.Params("id"), body.updateInput(), file)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.JSON(doc)
}

// Delete removes a document and its stored file.
//
//	@Summary	Delete document
//	@Tags		documents
//	@Produce	json
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	messageResponse
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id} [delete]
func (h *DocumentHandlers) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.JSON(messageResponse{Message: "Document deleted successfully"})
}

// Download streams the stored file.
//
//	@Summary	Download document file
//	@Tags		documents
//	@Param		id	path	string	true	"document id"
//	@Success	200
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id}/download [get]
func (h *DocumentHandlers) Download(c *fiber.Ctx) error {
	rc, info, err := h.svc.Open(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", path.Base(info.Key)))
	if info.Size > 0 {
		return c.SendStream(rc, int(info.Size))
	}
	return c.SendStream(rc)
}

// URL returns a presigned download URL.
//
//	@Summary	Presigned download URL
//	@Tags		documents
//	@Produce	json
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	presignResponse
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id}/url [get]
func (h *DocumentHandlers) URL(c *fiber.Ctx) error {
	u, exp, err := h.svc.PresignURL(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.JSON(presignResponse{URL: u, ExpiresAt: exp})
}
