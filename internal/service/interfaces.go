package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"feedsink/internal/domain"
	"feedsink/internal/sink"
)

type Source interface {
	Fetch(ctx context.Context) (*domain.Batch, error)
}

type Persister interface {
	Persist(ctx context.Context, batch *domain.Batch, cfg sink.Config, run domain.Run) (*domain.PersistStats, error)
}
