package integrations

import (
	"net/http"
	"time"
)

const httpTimeout = 30 * time.Second

// NewHTTPClient creates an HTTP client with a standard timeout for registry
// requests. The timeout also bounds how long a stalled request can hold the
// rate limiter.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
