package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/microcosm-cc/bluemonday"

	"docarchive/internal/domain"
	"docarchive/internal/export"
	"docarchive/internal/model"
	"docarchive/internal/repository"
	"docarchive/internal/storage"
)

// ErrStorageDisabled is returned by file operations when no object storage is configured.
var ErrStorageDisabled = domain.NewValidation("file storage is not configured")

const defaultPresignTTL = 15 * time.Minute

// FileUpload is the content of an uploaded file.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Create records metadata for a file that is already stored elsewhere (filePath is a path or URL).
	Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error)

	// Upload stores the file in object storage first, then writes the metadata.
	// The object is removed again if the metadata write fails.
	Upload(ctx context.Context, in CreateDocumentInput, file FileUpload) (*model.Document, error)

	// Get returns a document joined with its category.
	Get(ctx context.Context, id string) (*model.Document, error)

	// List returns documents matching f, newest upload first.
	List(ctx context.Context, f model.DocumentFilter) ([]model.Document, error)

	// Update applies a partial update. A non-nil file replaces the stored file; the old
	// object is deleted only after the metadata points at the new one.
	Update(ctx context.Context, id string, in UpdateDocumentInput, file *FileUpload) (*model.Document, error)

	// Delete detaches the document from the activity log, removes it, then removes its object.
	Delete(ctx context.Context, id string) error

	// Open streams the stored file of a document.
	Open(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)

	// PresignURL returns a time-limited download URL and its expiry.
	PresignURL(ctx context.Context, id string) (string, time.Time, error)

	// Export writes the documents matching f as an XLSX workbook.
	Export(ctx context.Context, f model.DocumentFilter, w io.Writer) error
}

// DocumentOption customizes a DocumentService.
type DocumentOption func(*documentService)

// WithPresignTTL sets how long presigned download URLs stay valid.
func WithPresignTTL(d time.Duration) DocumentOption {
	return func(s *documentService) {
		if d > 0 {
			s.presignTTL = d
		}
	}
}

// WithLocation sets the time zone used in exports.
func WithLocation(loc *time.Location) DocumentOption {
	return func(s *documentService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type documentService struct {
	store      repository.Store
	objects    storage.Storage
	activity   activityRecorder
	logger     *slog.Logger
	policy     *bluemonday.Policy
	presignTTL time.Duration
	loc        *time.Location
	now        func() time.Time
}

// NewDocumentService constructs a DocumentService. objects may be nil, in which case only
// metadata operations are available.
func NewDocumentService(store repository.Store, objects storage.Storage, logger *slog.Logger, opts ...DocumentOption) DocumentService {
	s := &documentService{
		store:      store,
		objects:    objects,
		activity:   activityRecorder{logs: store.ActivityLogs(), logger: logger, now: clock},
		logger:     logger,
		policy:     bluemonday.UGCPolicy(),
		presignTTL: defaultPresignTTL,
		loc:        time.UTC,
		now:        clock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sanitize strips unsafe markup from free text; blank results become nil.
func (s *documentService) sanitize(text *string) *string {
	if text == nil {
		return nil
	}
	return trimOptional(ptr(s.policy.Sanitize(*text)))
}

func ptr[T any](v T) *T { return &v }

// requireCategory is the pre-write referential check shared by every adapter.
func (s *documentService) requireCategory(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.store.Categories().FindByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidID):
		return nil, domain.NewValidation("category does not exist")
	case err != nil:
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

func (s *documentService) newDocument(in CreateDocumentInput, category *model.Category) *model.Document {
	now := s.now()
	return &model.Document{
		Title:          in.Title,
		DocumentNumber: in.DocumentNumber,
		Description:    s.sanitize(in.Description),
		DocumentDate:   in.DocumentDate,
		CategoryID:     category.ID,
		CategoryName:   category.Name,
		FilePath:       in.FilePath,
		FileType:       in.FileType,
		FileSize:       in.FileSize,
		Status:         in.Status,
		Security:       in.Security,
		UploadedAt:     now,
		UpdatedAt:      now,
	}
}

func (s *documentService) Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, validationErr(err)
	}
	category, err := s.requireCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Documents().Create(ctx, s.newDocument(in, category))
	if err != nil {
		return nil, mapRepoErr(err, resourceDocument, "")
	}
	return s.afterCreate(ctx, stored, category)
}

func (s *documentService) afterCreate(ctx context.Context, doc *model.Document, category *model.Category) (*model.Document, error) {
	if doc.Category == nil {
		doc.Category = category
	}
	if err := s.activity.record(ctx, "Uploaded document: "+doc.Title, &doc.ID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "document created", "document_id", doc.ID, "category_id", doc.CategoryID)
	return doc, nil
}

// fileType derives the stored file format from the extension, or the content type without one.
func fileType(filename, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."); ext != "" {
		return ext
	}
	if contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

func (s *documentService) put(ctx context.Context, file FileUpload) (storage.ObjectInfo, error) {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.objects.Put(ctx, storage.NewObjectKey(file.Filename), file.Reader, storage.PutObjectOptions{
		Size:        file.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": file.Filename,
		},
	})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("upload to storage: %w", err)
	}
	if info.Size <= 0 {
		info.Size = file.Size
	}
	return info, nil
}

// removeObject deletes key and only logs failures; an orphaned object is not user-visible.
func (s *documentService) removeObject(ctx context.Context, key, reason string) {
	if key == "" {
		return
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "object delete failed", "storage_key", key, "reason", reason, "error", err)
	}
}

func (s *documentService) Upload(ctx context.Context, in CreateDocumentInput, file FileUpload) (*model.Document, error) {
	if s.objects == nil {
		return nil, ErrStorageDisabled
	}
	if file.Reader == nil {
		return nil, ErrReaderNil
	}

	if strings.TrimSpace(in.Title) == "" {
		in.Title = strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
	}
	if in.FileType == "" {
		in.FileType = fileType(file.Filename, file.ContentType)
	}
	in.FileSize = file.Size
	// Validated against a placeholder path; the real key is known after the upload.
	in.FilePath = "pending"
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, validationErr(err)
	}
	category, err := s.requireCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	info, err := s.put(ctx, file)
	if err != nil {
		return nil, err
	}

	doc := s.newDocument(in, category)
	doc.FilePath = info.Key
	doc.StorageKey = info.Key
	doc.FileSize = info.Size

	stored, err := s.store.Documents().Create(ctx, doc)
	if err != nil {
		if delErr := s.objects.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", mapRepoErr(err, resourceDocument, ""))
	}
	return s.afterCreate(ctx, stored, category)
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.store.Documents().FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, resourceDocument, id)
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, f model.DocumentFilter) ([]model.Document, error) {
	if err := validation.Validate(f.Status, statusRule); err != nil {
		return nil, domain.NewValidation("status: " + err.Error())
	}
	docs, err := s.store.Documents().List(ctx, f)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, domain.NewValidation("invalid category id")
		}
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Update(ctx context.Context, id string, in UpdateDocumentInput, file *FileUpload) (*model.Document, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, validationErr(err)
	}
	if file != nil {
		if s.objects == nil {
			return nil, ErrStorageDisabled
		}
		if file.Reader == nil {
			return nil, ErrReaderNil
		}
	}

	doc, err := s.store.Documents().FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, resourceDocument, id)
	}

	if in.Title != nil {
		doc.Title = *in.Title
	}
	if in.DocumentNumber != nil {
		doc.DocumentNumber = trimOptional(in.DocumentNumber)
	}
	if in.Description != nil {
		doc.Description = s.sanitize(in.Description)
	}
	if in.DocumentDate != nil {
		doc.DocumentDate = in.DocumentDate
	}
	if in.Status != nil {
		doc.Status = *in.Status
	}
	if in.Security != nil {
		doc.Security = *in.Security
	}
	if in.CategoryID != nil && *in.CategoryID != doc.CategoryID {
		category, err := s.requireCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		doc.CategoryID = category.ID
		doc.CategoryName = category.Name
		doc.Category = category
	}

	// The old object stays authoritative until the metadata points at the new one.
	oldKey := doc.StorageKey
	var newKey string
	if file != nil {
		info, err := s.put(ctx, *file)
		if err != nil {
			return nil, err
		}
		newKey = info.Key
		doc.FilePath = info.Key
		doc.StorageKey = info.Key
		doc.FileSize = info.Size
		doc.FileType = fileType(file.Filename, file.ContentType)
	}
	doc.UpdatedAt = s.now()

	updated, err := s.store.Documents().Update(ctx, doc)
	if err != nil {
		if newKey != "" {
			s.removeObject(ctx, newKey, "rollback")
		}
		return nil, mapRepoErr(err, resourceDocument, id)
	}
	if newKey != "" && oldKey != newKey {
		s.removeObject(ctx, oldKey, "replaced")
	}
	if updated.Category == nil {
		updated.Category = doc.Category
	}

	if err := s.activity.record(ctx, fmt.Sprintf("Updated document ID %s: %s", id, updated.Title), &updated.ID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "document updated", "document_id", id, "file_replaced", newKey != "")
	return updated, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.store.Documents().FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, resourceDocument, id)
	}

	// Audit entries outlive the document; only their reference is cleared.
	if err := s.store.ActivityLogs().DetachDocument(ctx, id); err != nil {
		return fmt.Errorf("detach activity: %w", err)
	}
	if err := s.store.Documents().Delete(ctx, id); err != nil {
		return mapRepoErr(err, resourceDocument, id)
	}
	if s.objects != nil {
		s.removeObject(ctx, doc.StorageKey, "deleted")
	}

	if err := s.activity.record(ctx, "Deleted document ID "+id, nil); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "document deleted", "document_id", id)
	return nil
}

// storedKey returns the object key of a document kept in our object storage.
func (s *documentService) storedKey(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.objects == nil || doc.StorageKey == "" {
		return "", domain.NewNotFound("file", id)
	}
	return doc.StorageKey, nil
}

func (s *documentService) Open(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	key, err := s.storedKey(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	rc, info, err := s.objects.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, domain.NewNotFound("file", id)
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("get object: %w", err)
	}
	return rc, info, nil
}

func (s *documentService) PresignURL(ctx context.Context, id string) (string, time.Time, error) {
	key, err := s.storedKey(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := s.now().Add(s.presignTTL)
	u, err := s.objects.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign: %w", err)
	}
	return u, expiresAt, nil
}

func (s *documentService) Export(ctx context.Context, f model.DocumentFilter, w io.Writer) error {
	docs, err := s.List(ctx, f)
	if err != nil {
		return err
	}
	return export.WriteDocuments(w, docs, s.loc)
}
