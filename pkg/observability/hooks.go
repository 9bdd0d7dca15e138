// Package observability provides hooks for logging, metrics and tracing of
// registry traffic.
//
// The client library never logs on its own. Instead it reports events to
// hooks registered at startup, so applications decide where the events go
// without the library depending on any particular backend.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    observability.SetPaginationHooks(&myPageHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	ctx = observability.WithRequestID(ctx)
//	observability.HTTP().OnRequest(ctx, http.MethodGet, u.Host, u.Path)
//	// ... perform request ...
//	observability.HTTP().OnResponse(ctx, http.MethodGet, u.Host, u.Path, resp.StatusCode, elapsed)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request, after rate limiting.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response of any status.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Pagination Hooks
// =============================================================================

// PaginationHooks receives events from multi-page fetches.
type PaginationHooks interface {
	// OnPage records a fetched page. An empty page ends pagination.
	OnPage(ctx context.Context, endpoint string, page uint64, items int, total uint64)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopPaginationHooks is a no-op implementation of PaginationHooks.
type NoopPaginationHooks struct{}

func (NoopPaginationHooks) OnPage(context.Context, string, uint64, int, uint64) {}

// =============================================================================
// Request IDs
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// WithRequestID returns a context tagged with a fresh random request ID.
// Hooks use it to correlate the events of a single request.
func WithRequestID(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestIDKey, uuid.NewString())
}

// RequestID returns the request ID attached by [WithRequestID], or "" if none.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	paginationHooks PaginationHooks = NoopPaginationHooks{}
	hooksMu         sync.RWMutex
)

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetPaginationHooks registers custom pagination hooks.
func SetPaginationHooks(h PaginationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		paginationHooks = h
	}
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Pagination returns the registered pagination hooks.
func Pagination() PaginationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return paginationHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	httpHooks = NoopHTTPHooks{}
	paginationHooks = NoopPaginationHooks{}
}
