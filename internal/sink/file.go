package sink

import (
	"fmt"
	"log/slog"
	"os"

	"feedsink/internal/domain"
)

// FileSink writes the aggregate document to a file, replacing its content.
// The parent directory must already exist.
type FileSink struct {
	logger *slog.Logger
}

func NewFileSink(logger *slog.Logger) *FileSink {
	return &FileSink{logger: logger.With("sink", KindFile.String())}
}

func (s *FileSink) Write(path string, doc []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", domain.ErrWrite, path, err)
	}

	if _, err := f.Write(doc); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", domain.ErrWrite, path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", domain.ErrWrite, path, err)
	}

	s.logger.Debug("wrote document", "path", path, "bytes", len(doc))
	return nil
}
