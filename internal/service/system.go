package service

import (
	"context"
	"fmt"
	"log/slog"

	"docarchive/internal/repository"
)

// SystemService holds whole-archive maintenance operations.
type SystemService interface {
	// Reset removes every activity entry, document and category.
	// Stored objects are left in place.
	Reset(ctx context.Context) error
}

type systemService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewSystemService constructs a SystemService.
func NewSystemService(store repository.Store, logger *slog.Logger) SystemService {
	return &systemService{store: store, logger: logger}
}

func (s *systemService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s.logger.WarnContext(ctx, "archive data reset")
	return nil
}
