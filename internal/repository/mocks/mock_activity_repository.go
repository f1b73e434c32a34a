package mocks

import (
	"context"

	"docarchive/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Append(ctx context.Context, entry *model.ActivityLog) (*model.ActivityLog, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ActivityLog), args.Error(1)
}

func (m *MockActivityLogRepository) List(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

func (m *MockActivityLogRepository) DetachDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}
