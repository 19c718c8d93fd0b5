package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"feedsink/internal/domain"
	"feedsink/internal/naming"
)

// Config selects and addresses the backend of a run.
type Config struct {
	Kind        Kind
	Name        string
	DatePattern string
	Address     string

	// queue only
	Exchange   string
	Queue      string
	BindingKey string
}

type Option func(*Dispatcher)

func WithKeyValueOpener(fn func(ctx context.Context, address string, logger *slog.Logger) (*KeyValueSink, error)) Option {
	return func(d *Dispatcher) { d.openKeyValue = fn }
}

func WithRelationalOpener(fn func(ctx context.Context, address string, logger *slog.Logger) (*RelationalSink, error)) Option {
	return func(d *Dispatcher) { d.openRelational = fn }
}

func WithQueueOpener(fn func(ctx context.Context, cfg Config, logger *slog.Logger) (*QueueSink, error)) Option {
	return func(d *Dispatcher) { d.openQueue = fn }
}

// Dispatcher persists a batch to exactly one backend per call. It never
// retries and never falls back to another backend.
type Dispatcher struct {
	stdout io.Writer
	logger *slog.Logger

	openKeyValue   func(ctx context.Context, address string, logger *slog.Logger) (*KeyValueSink, error)
	openRelational func(ctx context.Context, address string, logger *slog.Logger) (*RelationalSink, error)
	openQueue      func(ctx context.Context, cfg Config, logger *slog.Logger) (*QueueSink, error)
}

func NewDispatcher(stdout io.Writer, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		stdout:         stdout,
		logger:         logger,
		openKeyValue:   OpenKeyValue,
		openRelational: OpenRelational,
		openQueue:      OpenQueue,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Persist writes batch to the backend selected by cfg.Kind. All names are
// derived from run.StartedAt.
func (d *Dispatcher) Persist(ctx context.Context, batch *domain.Batch, cfg Config, run domain.Run) (*domain.PersistStats, error) {
	startTime := time.Now()
	logger := d.logger.With("run_id", run.ID)

	var (
		stats  *domain.PersistStats
		target string
		err    error
	)

	switch cfg.Kind {
	case KindFile:
		target = naming.FileName(cfg.Name, cfg.DatePattern, run.StartedAt)
		stats, err = d.persistFile(batch, target, logger)
	case KindKeyValue:
		target = naming.Resolve(cfg.Name, cfg.DatePattern, run.StartedAt)
		stats, err = d.persistKeyValue(ctx, batch, cfg, target, logger)
	case KindRelational:
		target = naming.Resolve(cfg.Name, cfg.DatePattern, run.StartedAt)
		stats, err = d.persistRelational(ctx, batch, cfg, target, run, logger)
	case KindQueue:
		target = naming.Resolve(cfg.Name, cfg.DatePattern, run.StartedAt)
		stats, err = d.persistQueue(ctx, batch, cfg, target, run, logger)
	case KindConsole:
		stats, err = d.persistConsole(batch)
	default:
		err = fmt.Errorf("unhandled sink kind %d", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}

	stats.RunID = run.ID
	stats.Kind = cfg.Kind.String()
	stats.Target = target
	stats.Items = len(batch.Rows())
	stats.Duration = time.Since(startTime)

	return stats, nil
}

func (d *Dispatcher) persistFile(batch *domain.Batch, path string, logger *slog.Logger) (*domain.PersistStats, error) {
	doc, err := batch.Document()
	if err != nil {
		return nil, err
	}

	if err := NewFileSink(logger).Write(path, doc); err != nil {
		return nil, err
	}
	return documentStats(batch), nil
}

func (d *Dispatcher) persistKeyValue(ctx context.Context, batch *domain.Batch, cfg Config, key string, logger *slog.Logger) (*domain.PersistStats, error) {
	doc, err := batch.Document()
	if err != nil {
		return nil, err
	}

	s, err := d.openKeyValue(ctx, cfg.Address, logger)
	if err != nil {
		return nil, err
	}
	defer closeSink(s, logger)

	if err := s.Write(ctx, key, doc); err != nil {
		return nil, err
	}
	return documentStats(batch), nil
}

func (d *Dispatcher) persistRelational(ctx context.Context, batch *domain.Batch, cfg Config, table string, run domain.Run, logger *slog.Logger) (*domain.PersistStats, error) {
	if batch == nil {
		return nil, fmt.Errorf("%w: nil batch", domain.ErrSerialization)
	}
	items := batch.Rows()

	s, err := d.openRelational(ctx, cfg.Address, logger)
	if err != nil {
		return nil, err
	}
	defer closeSink(s, logger)

	return s.Write(ctx, table, run, items)
}

func (d *Dispatcher) persistQueue(ctx context.Context, batch *domain.Batch, cfg Config, routingKey string, run domain.Run, logger *slog.Logger) (*domain.PersistStats, error) {
	doc, err := batch.Document()
	if err != nil {
		return nil, err
	}

	s, err := d.openQueue(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeSink(s, logger)

	if err := s.Write(ctx, routingKey, run, doc); err != nil {
		return nil, err
	}
	return documentStats(batch), nil
}

func (d *Dispatcher) persistConsole(batch *domain.Batch) (*domain.PersistStats, error) {
	doc, err := batch.Document()
	if err != nil {
		return nil, err
	}

	if err := NewConsoleSink(d.stdout).Write(doc); err != nil {
		return nil, err
	}
	return documentStats(batch), nil
}

func documentStats(batch *domain.Batch) *domain.PersistStats {
	return &domain.PersistStats{Written: len(batch.Rows())}
}

func closeSink(c io.Closer, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Warn("failed to close sink", "error", err)
	}
}
