package service

import (
	"context"
	"database/sql"
	"fmt"

	"filevault/internal/repository"
	"filevault/internal/session"
)

// StatusReport describes backing-store connectivity.
type StatusReport struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// StatsReport holds whole-system entity counts.
type StatsReport struct {
	Users int `json:"users"`
	Files int `json:"files"`
}

// StatsService reports service health and entity counts.
type StatsService interface {
	Status(ctx context.Context) StatusReport
	Stats(ctx context.Context) (StatsReport, error)
}

type statsService struct {
	db       *sql.DB
	sessions session.Store
	users    repository.UserRepository
	files    repository.FileRepository
}

// NewStatsService constructs a new StatsService.
func NewStatsService(db *sql.DB, sessions session.Store, users repository.UserRepository, files repository.FileRepository) StatsService {
	return &statsService{db: db, sessions: sessions, users: users, files: files}
}

func (s *statsService) Status(ctx context.Context) StatusReport {
	return StatusReport{
		Redis: s.sessions.Ping(ctx) == nil,
		DB:    s.db.PingContext(ctx) == nil,
	}
}

func (s *statsService) Stats(ctx context.Context) (StatsReport, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return StatsReport{}, fmt.Errorf("count users: %w", err)
	}
	files, err := s.files.Count(ctx)
	if err != nil {
		return StatsReport{}, fmt.Errorf("count files: %w", err)
	}
	return StatsReport{Users: users, Files: files}, nil
}
