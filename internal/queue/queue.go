package queue

import "context"

// Package queue is the message-passing boundary between request handlers
// and background processing. The request path only ever enqueues; it never
// waits for job completion. Retry and backoff policy belong to the queue
// backend, not to the producers or processors.

// Task type names shared by the producer and the worker mux.
const (
	TaskThumbnail = "thumbnail:generate"
	TaskWelcome   = "user:welcome"
)

// ThumbnailJob requests derivation of all configured thumbnail sizes for
// one uploaded image. Consumed at most once per attempt; never persisted
// outside the queue.
type ThumbnailJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// WelcomeJob requests a welcome notification for a newly registered user.
type WelcomeJob struct {
	UserID string `json:"userId"`
}

// Enqueuer is the producer half of the job queue.
type Enqueuer interface {
	EnqueueThumbnail(ctx context.Context, job ThumbnailJob) error
	EnqueueWelcome(ctx context.Context, job WelcomeJob) error
}
