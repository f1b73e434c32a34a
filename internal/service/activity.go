package service

import (
	"context"
	"fmt"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500
)

// ActivityLogService reads the audit trail.
type ActivityLogService interface {
	// List returns the most recent entries, newest first. A non-positive limit means the default.
	List(ctx context.Context, limit int) ([]model.ActivityLog, error)
}

type activityLogService struct {
	logs repository.ActivityLogRepository
}

// NewActivityLogService constructs an ActivityLogService.
func NewActivityLogService(store repository.Store) ActivityLogService {
	return &activityLogService{logs: store.ActivityLogs()}
}

func (s *activityLogService) List(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	entries, err := s.logs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}
