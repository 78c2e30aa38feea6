package mocks

import (
	"context"

	"filevault/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Status(ctx context.Context) service.StatusReport {
	args := m.Called(ctx)
	return args.Get(0).(service.StatusReport)
}

func (m *MockStatsService) Stats(ctx context.Context) (service.StatsReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.StatsReport), args.Error(1)
}
