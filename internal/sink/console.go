package sink

import (
	"fmt"
	"io"

	"feedsink/internal/domain"
)

// ConsoleSink prints the aggregate document to the run's output stream.
type ConsoleSink struct {
	out io.Writer
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

func (s *ConsoleSink) Write(doc []byte) error {
	if _, err := s.out.Write(append(doc, '\n')); err != nil {
		return fmt.Errorf("%w: write output: %w", domain.ErrWrite, err)
	}
	return nil
}
