// Package service holds the domain operations: validation, referential
// integrity checks and activity logging layered over a repository.Store.
// The checks run here for every adapter, so schema-less stores behave the
// same as relational ones.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docarchive/internal/domain"
	"docarchive/internal/model"
	"docarchive/internal/repository"
)

const (
	resourceCategory = "category"
	resourceDocument = "document"
)

// ErrReaderNil is returned when an upload carries no content.
var ErrReaderNil = domain.NewValidation("file content is required")

// clock returns the current time in UTC.
func clock() time.Time { return time.Now().UTC() }

// mapRepoErr translates adapter sentinels into the domain error taxonomy.
// Anything unrecognized is returned unchanged and ends up as a 500.
func mapRepoErr(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return domain.NewNotFound(resource, id)
	case errors.Is(err, repository.ErrInvalidID):
		return domain.NewValidation("invalid " + resource + " id")
	case errors.Is(err, repository.ErrDuplicate):
		return domain.NewConflict(resource, resource+" name already exists")
	case errors.Is(err, repository.ErrInvalidReference):
		return domain.NewValidation("category does not exist")
	case errors.Is(err, repository.ErrInvalidValue):
		return domain.NewValidation("invalid " + resource + " field value")
	default:
		return err
	}
}

// validationErr wraps an ozzo-validation error as a domain ValidationError.
func validationErr(err error) error {
	if err == nil {
		return nil
	}
	return domain.NewValidation(strings.TrimSuffix(err.Error(), "."))
}

// activityRecorder appends one audit entry per mutation.
type activityRecorder struct {
	logs   repository.ActivityLogRepository
	logger *slog.Logger
	now    func() time.Time
}

func (a activityRecorder) record(ctx context.Context, action string, documentID *string) error {
	_, err := a.logs.Append(ctx, &model.ActivityLog{
		Action:     action,
		DocumentID: documentID,
		Timestamp:  a.now(),
	})
	if err != nil {
		a.logger.ErrorContext(ctx, "activity append failed", "action", action, "error", err)
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}
