// Package should runs cleanup whose failure is logged instead of returned,
// for use in defer statements.
package should

import (
	"context"
	"io"

	"github.com/amp-labs/amp-iterator/logger"
)

// Close closes c and logs msg at warn level if that fails. A nil c is ignored.
//
//	defer should.Close(ctx, file, "closing input")
func Close(ctx context.Context, c io.Closer, msg string) {
	if c == nil {
		return
	}

	if err := c.Close(); err != nil {
		logger.Get(ctx).Warn(msg, "error", err)
	}
}
