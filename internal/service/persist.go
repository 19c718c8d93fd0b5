package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"feedsink/internal/domain"
	"feedsink/internal/sink"
)

type Option func(*PersistService)

// WithClock replaces the clock that stamps each run.
func WithClock(now func() time.Time) Option {
	return func(s *PersistService) { s.now = now }
}

// PersistService runs one fetch-and-persist cycle per call.
type PersistService struct {
	source    Source
	persister Persister
	config    sink.Config
	now       func() time.Time
	logger    *slog.Logger
}

func NewPersistService(
	source Source,
	persister Persister,
	cfg sink.Config,
	logger *slog.Logger,
	opts ...Option,
) *PersistService {
	s := &PersistService{
		source:    source,
		persister: persister,
		config:    cfg,
		now:       time.Now,
		logger:    logger.With("sink", cfg.Kind.String()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PersistService) Run(ctx context.Context) (*domain.PersistStats, error) {
	run := domain.NewRun(s.now())
	logger := s.logger.With("run_id", run.ID)

	logger.Info("starting run", "started_at", run.StartedAt)

	batch, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}

	logger.Info("fetched batch", "items", len(batch.Rows()))

	stats, err := s.persister.Persist(ctx, batch, s.config, run)
	if err != nil {
		return nil, fmt.Errorf("persist batch: %w", err)
	}

	logger.Info("run completed",
		"target", stats.Target,
		"items", stats.Items,
		"written", stats.Written,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)

	return stats, nil
}
