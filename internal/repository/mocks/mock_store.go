package mocks

import (
	"context"

	"docarchive/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockStore bundles the repository mocks behind repository.Store.
type MockStore struct {
	mock.Mock
	CategoryRepo *MockCategoryRepository
	DocumentRepo *MockDocumentRepository
	ActivityRepo *MockActivityLogRepository
}

// NewMockStore returns a MockStore with fresh repository mocks.
func NewMockStore() *MockStore {
	return &MockStore{
		CategoryRepo: new(MockCategoryRepository),
		DocumentRepo: new(MockDocumentRepository),
		ActivityRepo: new(MockActivityLogRepository),
	}
}

func (m *MockStore) Categories() repository.CategoryRepository      { return m.CategoryRepo }
func (m *MockStore) Documents() repository.DocumentRepository       { return m.DocumentRepo }
func (m *MockStore) ActivityLogs() repository.ActivityLogRepository { return m.ActivityRepo }

func (m *MockStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// AssertAll checks expectations on the store and every repository mock.
func (m *MockStore) AssertAll(t mock.TestingT) {
	m.AssertExpectations(t)
	m.CategoryRepo.AssertExpectations(t)
	m.DocumentRepo.AssertExpectations(t)
	m.ActivityRepo.AssertExpectations(t)
}
