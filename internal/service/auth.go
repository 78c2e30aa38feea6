package service

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"filevault/internal/model"
	"filevault/internal/queue"
	"filevault/internal/repository"
	"filevault/internal/session"
)

var (
	ErrMalformedCredentials = errors.New("malformed credentials")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrMissingEmail         = errors.New("missing email")
	ErrMissingPassword      = errors.New("missing password")
	ErrEmailTaken           = errors.New("email already registered")
)

const (
	sessionKeyPrefix = "auth_"
	sessionTTL       = 24 * time.Hour
)

// AuthService owns the session token lifecycle: registration, login,
// logout, and resolving a bearer token to a user identity. Every protected
// operation in the system goes through Resolve.
type AuthService interface {
	// Register creates a new account and enqueues a welcome job.
	Register(ctx context.Context, email, password string) (*model.User, error)

	// Login exchanges a Basic authorization header value for a session token.
	Login(ctx context.Context, authorization string) (string, error)

	// Logout invalidates a session token. A second logout with the same
	// token fails: the entry no longer exists.
	Logout(ctx context.Context, token string) error

	// Resolve maps a session token to a user id, or ErrNotAuthenticated.
	Resolve(ctx context.Context, token string) (string, error)

	// Me resolves the token and loads the corresponding user.
	Me(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	users    repository.UserRepository
	sessions session.Store
	jobs     queue.Enqueuer
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, sessions session.Store, jobs queue.Enqueuer) AuthService {
	return &authService{users: users, sessions: sessions, jobs: jobs}
}

func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashPassword(password),
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.jobs.EnqueueWelcome(ctx, queue.WelcomeJob{UserID: stored.ID}); err != nil {
		return nil, fmt.Errorf("enqueue welcome job: %w", err)
	}
	return stored, nil
}

func (s *authService) Login(ctx context.Context, authorization string) (string, error) {
	email, password, err := decodeBasicCredentials(authorization)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByCredentials(ctx, email, hashPassword(password))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup credentials: %w", err)
	}

	token := uuid.NewString()
	if err := s.sessions.SetWithTTL(ctx, sessionKeyPrefix+token, user.ID, sessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	userID, err := s.Resolve(ctx, token)
	if err != nil {
		return err
	}

	// The resolved user must still exist; a dangling token is treated the
	// same as no token at all.
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.sessions.Delete(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *authService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotAuthenticated
	}
	userID, err := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if errors.Is(err, session.ErrKeyNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("resolve session: %w", err)
	}
	return userID, nil
}

func (s *authService) Me(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// decodeBasicCredentials extracts the email/password pair from a
// "Basic <base64>" authorization header value.
func decodeBasicCredentials(authorization string) (email, password string, err error) {
	if authorization == "" {
		return "", "", ErrMalformedCredentials
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Basic") {
		return "", "", ErrMalformedCredentials
	}
	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", ErrMalformedCredentials
	}
	email, password, ok := strings.Cut(string(raw), ":")
	if !ok || email == "" || password == "" {
		return "", "", ErrMalformedCredentials
	}
	return email, password, nil
}

// hashPassword returns the hex digest stored and matched by equality in the
// users table. Plaintext never leaves this function.
func hashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
