package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"filevault/internal/config"
)

// AsynqEnqueuer produces jobs onto a Redis-backed asynq queue.
// Safe for concurrent use; one instance is shared across request handlers.
type AsynqEnqueuer struct {
	client *asynq.Client
}

// RedisOpt converts our Redis config into asynq's connection options.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewAsynqEnqueuer creates a producer over the given Redis connection.
func NewAsynqEnqueuer(cfg config.RedisConfig) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: asynq.NewClient(RedisOpt(cfg))}
}

var _ Enqueuer = (*AsynqEnqueuer)(nil)

// EnqueueThumbnail submits a thumbnail derivation job and returns without
// waiting for it to run.
func (e *AsynqEnqueuer) EnqueueThumbnail(ctx context.Context, job ThumbnailJob) error {
	return e.enqueue(ctx, TaskThumbnail, job)
}

// EnqueueWelcome submits a welcome notification job.
func (e *AsynqEnqueuer) EnqueueWelcome(ctx context.Context, job WelcomeJob) error {
	return e.enqueue(ctx, TaskWelcome, job)
}

func (e *AsynqEnqueuer) enqueue(ctx context.Context, taskType string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	if _, err := e.client.EnqueueContext(ctx, asynq.NewTask(taskType, b)); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

// Close releases the underlying queue connection.
func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
