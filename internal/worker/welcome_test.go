package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"filevault/internal/model"
	"filevault/internal/queue"
	repoMocks "filevault/internal/repository/mocks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func welcomeTask(t *testing.T, job queue.WelcomeJob) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return asynq.NewTask(queue.TaskWelcome, b)
}

func TestWelcomeProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("greets an existing user", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByID", ctx, "user-1").
			Return(&model.User{ID: "user-1", Email: "bob@dylan.com"}, nil)

		p := NewWelcomeProcessor(mUsers)

		err := p.ProcessTask(ctx, welcomeTask(t, queue.WelcomeJob{UserID: "user-1"}))

		assert.NoError(t, err)
		mUsers.AssertExpectations(t)
	})

	t.Run("missing userId skips retry", func(t *testing.T) {
		p := NewWelcomeProcessor(new(repoMocks.MockUserRepository))

		err := p.ProcessTask(ctx, welcomeTask(t, queue.WelcomeJob{}))

		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("unknown user is retryable", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		p := NewWelcomeProcessor(mUsers)

		err := p.ProcessTask(ctx, welcomeTask(t, queue.WelcomeJob{UserID: "ghost"}))

		assert.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})
}
