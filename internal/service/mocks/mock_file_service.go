package mocks

import (
	"context"
	"io"

	"filevault/internal/model"
	"filevault/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Create(ctx context.Context, token string, in service.CreateFileInput) (*model.FileView, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileView), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, token, fileID string) (*model.FileView, error) {
	args := m.Called(ctx, token, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileView), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, token, parentID string, page int) ([]model.FileView, error) {
	args := m.Called(ctx, token, parentID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileView), args.Error(1)
}

func (m *MockFileService) SetVisibility(ctx context.Context, token, fileID string, isPublic bool) (*model.FileView, error) {
	args := m.Called(ctx, token, fileID, isPublic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileView), args.Error(1)
}

func (m *MockFileService) Read(ctx context.Context, token, fileID, size string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, token, fileID, size)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}
