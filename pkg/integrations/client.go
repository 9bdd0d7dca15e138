package integrations

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/cratesio/pkg/errors"
	"github.com/matzehuels/cratesio/pkg/observability"
	"github.com/matzehuels/cratesio/pkg/ratelimit"
)

// Client provides shared HTTP functionality for registry API clients.
// It handles rate limiting, common request headers, status classification
// and response decoding.
//
// All methods are safe for concurrent use. Every request made through one
// Client passes through the same [ratelimit.Limiter].
type Client struct {
	http    *http.Client
	limiter *ratelimit.Limiter
	headers http.Header
}

// NewClient creates a Client that sends headers with every request and
// paces requests through limiter. A nil httpClient uses [NewHTTPClient]; a
// nil limiter serializes requests without spacing them.
func NewClient(httpClient *http.Client, limiter *ratelimit.Limiter, headers http.Header) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if limiter == nil {
		limiter = ratelimit.New(0)
	}
	return &Client{
		http:    httpClient,
		limiter: limiter,
		headers: headers.Clone(),
	}
}

// Limiter returns the limiter shared by all requests of this client.
func (c *Client) Limiter() *ratelimit.Limiter { return c.limiter }

// Get performs an HTTP GET request and decodes the response into v.
// See [DecodeInto] for how bodies are classified.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return err
	}
	return DecodeInto(body, v)
}

// Fetch performs one rate-limited HTTP GET and returns the full response
// body of a 2xx response. Other outcomes are returned as [*errors.Error]:
//   - 404: NOT_FOUND carrying url
//   - 403: PERMISSION_DENIED carrying the response body as reason
//   - other statuses and transport failures: NETWORK_ERROR
//
// No retries are attempted.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "build request for %s", url)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}

	permit, err := c.limiter.Acquire(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "wait for rate limiter")
	}

	ctx = observability.WithRequestID(ctx)
	req = req.WithContext(ctx)
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		permit.Abort()
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp, url)
	permit.Release()

	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))
	return body, err
}

func readResponse(resp *http.Response, url string) ([]byte, error) {
	switch code := resp.StatusCode; {
	case code == http.StatusNotFound:
		return nil, errors.NotFound(url)
	case code == http.StatusForbidden:
		reason, err := io.ReadAll(resp.Body)
		if err != nil {
			reason = nil
		}
		return nil, errors.PermissionDenied(string(reason))
	case code < 200 || code >= 300:
		return nil, errors.New(errors.ErrCodeNetwork, "GET %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read response from %s", url)
	}
	return body, nil
}
