package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"filevault/internal/model"
	"filevault/internal/queue"
	queueMocks "filevault/internal/queue/mocks"
	repoMocks "filevault/internal/repository/mocks"
	"filevault/internal/session"
	sessionMocks "filevault/internal/session/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory session.Store used to test the full token
// lifecycle without a Redis instance. TTLs are accepted but not enforced.
type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", session.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func basicHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockEnqueuer)
		wantErr    error
	}{
		{
			name:     "happy path",
			email:    "bob@dylan.com",
			password: "toto1234!",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockEnqueuer) {
				mUsers.On("FindByEmail", ctx, "bob@dylan.com").Return(nil, sql.ErrNoRows)
				mUsers.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "bob@dylan.com" && u.PasswordHash != "" && u.PasswordHash != "toto1234!"
				})).Return(&model.User{ID: "user-1", Email: "bob@dylan.com"}, nil)
				mJobs.On("EnqueueWelcome", ctx, queue.WelcomeJob{UserID: "user-1"}).Return(nil)
			},
		},
		{
			name:     "missing email reported before missing password",
			email:    "",
			password: "",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockEnqueuer) {
			},
			wantErr: ErrMissingEmail,
		},
		{
			name:     "missing password",
			email:    "bob@dylan.com",
			password: "",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockEnqueuer) {
			},
			wantErr: ErrMissingPassword,
		},
		{
			name:     "email already registered",
			email:    "bob@dylan.com",
			password: "toto1234!",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockEnqueuer) {
				mUsers.On("FindByEmail", ctx, "bob@dylan.com").
					Return(&model.User{ID: "user-1", Email: "bob@dylan.com"}, nil)
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mUsers := new(repoMocks.MockUserRepository)
			mJobs := new(queueMocks.MockEnqueuer)
			svc := NewAuthService(mUsers, newFakeStore(), mJobs)

			tt.setupMocks(mUsers, mJobs)

			user, err := svc.Register(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "user-1", user.ID)
			}
			mUsers.AssertExpectations(t)
			mJobs.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed headers", func(t *testing.T) {
		svc := NewAuthService(new(repoMocks.MockUserRepository), newFakeStore(), new(queueMocks.MockEnqueuer))

		for _, header := range []string{
			"",
			"Basic",
			"Bearer abc",
			"Basic !!!not-base64!!!",
			"Basic " + base64.StdEncoding.EncodeToString([]byte("no-colon")),
			"Basic " + base64.StdEncoding.EncodeToString([]byte(":pass")),
			"Basic " + base64.StdEncoding.EncodeToString([]byte("email:")),
		} {
			_, err := svc.Login(ctx, header)
			assert.ErrorIs(t, err, ErrMalformedCredentials, "header %q", header)
		}
	})

	t.Run("unknown credentials", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByCredentials", ctx, "bob@dylan.com", mock.AnythingOfType("string")).
			Return(nil, sql.ErrNoRows)
		svc := NewAuthService(mUsers, newFakeStore(), new(queueMocks.MockEnqueuer))

		_, err := svc.Login(ctx, basicHeader("bob@dylan.com", "wrong"))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("token is stored with session TTL", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByCredentials", ctx, "bob@dylan.com", mock.AnythingOfType("string")).
			Return(&model.User{ID: "user-1", Email: "bob@dylan.com"}, nil)

		mStore := new(sessionMocks.MockStore)
		mStore.On("SetWithTTL", ctx, mock.MatchedBy(func(key string) bool {
			return len(key) > len("auth_") && key[:5] == "auth_"
		}), "user-1", 24*time.Hour).Return(nil)

		svc := NewAuthService(mUsers, mStore, new(queueMocks.MockEnqueuer))

		token, err := svc.Login(ctx, basicHeader("bob@dylan.com", "toto1234!"))
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		mStore.AssertExpectations(t)
	})
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()

	user := &model.User{ID: "user-1", Email: "bob@dylan.com"}
	mUsers := new(repoMocks.MockUserRepository)
	mUsers.On("FindByCredentials", ctx, "bob@dylan.com", hashPassword("toto1234!")).Return(user, nil)
	mUsers.On("FindByID", ctx, "user-1").Return(user, nil)

	svc := NewAuthService(mUsers, newFakeStore(), new(queueMocks.MockEnqueuer))

	// Login followed immediately by Resolve returns the same user id.
	token, err := svc.Login(ctx, basicHeader("bob@dylan.com", "toto1234!"))
	require.NoError(t, err)

	userID, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	me, err := svc.Me(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "bob@dylan.com", me.Email)

	// Logout invalidates the token.
	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// A second logout with the same token fails, it does not silently succeed.
	assert.ErrorIs(t, svc.Logout(ctx, token), ErrNotAuthenticated)
}

func TestAuthService_Resolve(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(new(repoMocks.MockUserRepository), newFakeStore(), new(queueMocks.MockEnqueuer))

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "never-issued")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})
}

func TestHashPassword(t *testing.T) {
	// Stable digest, equality-comparable, never the plaintext.
	h := hashPassword("toto1234!")
	assert.Equal(t, h, hashPassword("toto1234!"))
	assert.NotEqual(t, "toto1234!", h)
	assert.Len(t, h, 40)
}
