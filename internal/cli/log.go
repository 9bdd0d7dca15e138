package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cratesio/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Fetched serde (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// httpLogHooks logs registry traffic at debug level.
type httpLogHooks struct {
	logger *log.Logger
}

func newHTTPLogHooks(l *log.Logger) observability.HTTPHooks {
	return httpLogHooks{logger: l.WithPrefix("http")}
}

func (h httpLogHooks) OnRequest(ctx context.Context, method, host, path string) {
	h.logger.Debug("request", "id", observability.RequestID(ctx), "method", method, "host", host, "path", path)
}

func (h httpLogHooks) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "id", observability.RequestID(ctx), "status", status, "path", path,
		"duration", d.Round(time.Millisecond))
}

func (h httpLogHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "id", observability.RequestID(ctx), "method", method, "host", host,
		"path", path, "err", err)
}

// pageLogHooks logs pagination progress at debug level.
type pageLogHooks struct {
	logger *log.Logger
}

func newPageLogHooks(l *log.Logger) observability.PaginationHooks {
	return pageLogHooks{logger: l.WithPrefix("pages")}
}

func (h pageLogHooks) OnPage(ctx context.Context, endpoint string, page uint64, items int, total uint64) {
	if items == 0 {
		h.logger.Debug("last page reached", "endpoint", endpoint, "page", page)
		return
	}
	h.logger.Debug("page", "endpoint", endpoint, "page", page, "items", items, "total", total)
}
