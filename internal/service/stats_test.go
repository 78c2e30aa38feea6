package service

import (
	"context"
	"errors"
	"testing"

	repoMocks "filevault/internal/repository/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Status(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	svc := NewStatsService(db, newFakeStore(), new(repoMocks.MockUserRepository), new(repoMocks.MockFileRepository))

	t.Run("all stores healthy", func(t *testing.T) {
		dbMock.ExpectPing()

		report := svc.Status(context.Background())

		assert.True(t, report.Redis)
		assert.True(t, report.DB)
	})

	t.Run("db down", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		report := svc.Status(context.Background())

		assert.True(t, report.Redis)
		assert.False(t, report.DB)
	})
}

func TestStatsService_Stats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("counts", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("Count", mock.Anything).Return(12, nil)
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("Count", mock.Anything).Return(1231, nil)

		svc := NewStatsService(db, newFakeStore(), mUsers, mFiles)

		report, err := svc.Stats(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 12, report.Users)
		assert.Equal(t, 1231, report.Files)
	})

	t.Run("count failure propagates", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("Count", mock.Anything).Return(0, errors.New("db fail"))

		svc := NewStatsService(db, newFakeStore(), mUsers, new(repoMocks.MockFileRepository))

		_, err := svc.Stats(context.Background())

		assert.Error(t, err)
	})
}
