package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmkoo/daedap/pkg/api"
)

// Logging returns middleware that emits structured log entries for each
// request. The log entry includes the request ID (from context), stream
// mode, history length, duration, and whether the request succeeded.
//
// The HTTP method and path are not available at the Asker level; for
// HTTP-level logging (including status codes) use middleware in the
// adapter.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Asker) Asker {
		return AskerFunc(func(ctx context.Context, req *api.AskRequest, w EventWriter) error {
			start := time.Now()
			requestID := RequestIDFromContext(ctx)

			err := next.Ask(ctx, req, w)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.Bool("stream", req.Stream),
				slog.Int("history_len", len(req.History)),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelInfo, "request completed", attrs...)
			}

			return err
		})
	}
}
