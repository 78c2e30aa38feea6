package mocks

import (
	"context"

	"filevault/internal/queue"

	"github.com/stretchr/testify/mock"
)

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueThumbnail(ctx context.Context, job queue.ThumbnailJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockEnqueuer) EnqueueWelcome(ctx context.Context, job queue.WelcomeJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
