package sink

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedsink/internal/domain"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestConsoleSink_Write(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewConsoleSink(&out).Write([]byte(`{"items":[]}`)))
	assert.Equal(t, "{\"items\":[]}\n", out.String())
}

func TestConsoleSink_WriteFailure(t *testing.T) {
	err := NewConsoleSink(failingWriter{}).Write([]byte(`{}`))
	assert.True(t, errors.Is(err, domain.ErrWrite))
}
