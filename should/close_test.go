package should_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/amp-labs/amp-iterator/closer"
	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/should"
	"github.com/stretchr/testify/assert"
)

var errCloseFailed = errors.New("close failed")

func TestClose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := logger.WithLogger(t.Context(), slog.New(slog.NewTextHandler(&buf, nil)))

	closed := 0
	should.Close(ctx, closer.CustomCloser(func() error {
		closed++

		return nil
	}), "closing quietly")

	assert.Equal(t, 1, closed)
	assert.Empty(t, buf.String())

	should.Close(ctx, closer.CustomCloser(func() error {
		return errCloseFailed
	}), "closing input")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `msg="closing input"`)
	assert.Contains(t, buf.String(), `error="close failed"`)

	assert.NotPanics(t, func() {
		should.Close(ctx, nil, "nothing")
	})
}
