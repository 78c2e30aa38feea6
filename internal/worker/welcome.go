package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"filevault/internal/queue"
	"filevault/internal/repository"
)

// WelcomeProcessor consumes user-onboarding jobs. Same contract as the
// thumbnail processor: fail fast on missing fields, report everything else
// to the queue.
type WelcomeProcessor struct {
	users repository.UserRepository
}

// NewWelcomeProcessor constructs a processor over the given user repo.
func NewWelcomeProcessor(users repository.UserRepository) *WelcomeProcessor {
	return &WelcomeProcessor{users: users}
}

// ProcessTask implements the asynq handler contract.
func (p *WelcomeProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var job queue.WelcomeJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return fmt.Errorf("decode welcome payload: %v: %w", err, asynq.SkipRetry)
	}
	if job.UserID == "" {
		return fmt.Errorf("missing userId: %w", asynq.SkipRetry)
	}

	user, err := p.users.FindByID(ctx, job.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("user %s not found", job.UserID)
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	log.Printf("Welcome %s!", user.Email)
	return nil
}
