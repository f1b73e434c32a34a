package mocks

import (
	"context"

	"docarchive/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockActivityLogService struct {
	mock.Mock
}

func (m *MockActivityLogService) List(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardSummary), args.Error(1)
}

type MockSystemService struct {
	mock.Mock
}

func (m *MockSystemService) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
