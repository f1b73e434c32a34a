package service

import (
	"context"
	"fmt"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// RecentDocumentsLimit is the number of recent uploads shown on the dashboard.
const RecentDocumentsLimit = 5

// DashboardService aggregates read-only counts for the dashboard.
type DashboardService interface {
	Summary(ctx context.Context) (*model.DashboardSummary, error)
}

type dashboardService struct {
	store repository.Store
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(store repository.Store) DashboardService {
	return &dashboardService{store: store}
}

func (s *dashboardService) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	total, err := s.store.Documents().Count(ctx, model.DocumentFilter{})
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	archived, err := s.store.Documents().Count(ctx, model.DocumentFilter{Status: model.StatusArchived})
	if err != nil {
		return nil, fmt.Errorf("count archived documents: %w", err)
	}
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	recent, err := s.store.Documents().List(ctx, model.DocumentFilter{Limit: RecentDocumentsLimit})
	if err != nil {
		return nil, fmt.Errorf("list recent documents: %w", err)
	}

	return &model.DashboardSummary{
		TotalDocuments:    total,
		ArchivedDocuments: archived,
		TotalCategories:   len(categories),
		RecentDocuments:   recent,
	}, nil
}
