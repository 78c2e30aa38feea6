package mocks

import (
	"context"

	"filevault/internal/model"
	"filevault/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, f *model.FileNode) (*model.FileNode, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileNode), args.Error(1)
}

func (m *MockFileRepository) FindByID(ctx context.Context, id string) (*model.FileNode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileNode), args.Error(1)
}

func (m *MockFileRepository) FindByIDAndOwner(ctx context.Context, id, userID string) (*model.FileNode, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileNode), args.Error(1)
}

func (m *MockFileRepository) ListByParent(ctx context.Context, userID, parentID string, pq repository.PageQuery) ([]model.FileNode, error) {
	args := m.Called(ctx, userID, parentID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileNode), args.Error(1)
}

func (m *MockFileRepository) SetVisibility(ctx context.Context, id, userID string, isPublic bool) error {
	args := m.Called(ctx, id, userID, isPublic)
	return args.Error(0)
}

func (m *MockFileRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
