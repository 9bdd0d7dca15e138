package crates

import (
	"context"
	"net/http"
	"time"

	"github.com/matzehuels/cratesio/pkg/errors"
	"github.com/matzehuels/cratesio/pkg/integrations"
	"github.com/matzehuels/cratesio/pkg/ratelimit"
)

// Client provides typed access to the crates.io registry API, or to any
// registry that implements the same API.
//
// All requests made through one Client share a single rate limiter: at most
// one request is in flight and request starts are at least the configured
// interval apart. crates.io asks for no more than one request per second.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	endpoints endpoints
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	registry   *integrations.Registry
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

// WithRegistry targets a registry other than crates.io.
func WithRegistry(r *integrations.Registry) Option {
	return func(o *options) { o.registry = r }
}

// NewClient creates a client for crates.io.
//
// userAgent is sent with every request and must identify the caller, e.g.
// "my_bot (help@my_bot.com)"; crates.io blocks requests without one.
// interval is the minimum spacing between request starts.
//
// Returns INVALID_HEADER if userAgent (or a registry token) cannot be sent
// as a header value, and INVALID_INPUT for an unusable registry URL.
func NewClient(userAgent string, interval time.Duration, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	base := o.registry.BaseURL()
	if err := errors.ValidateURL(base); err != nil {
		return nil, err
	}

	headers, err := integrations.SetupHeaders(userAgent, o.registry)
	if err != nil {
		return nil, err
	}

	return &Client{
		Client:    integrations.NewClient(o.httpClient, ratelimit.New(interval), headers),
		endpoints: endpoints{base: base},
	}, nil
}

// Build creates a client for the given registry. A nil registry means
// crates.io, so Build(ua, d, nil) is equivalent to NewClient(ua, d).
func Build(userAgent string, interval time.Duration, registry *integrations.Registry, opts ...Option) (*Client, error) {
	return NewClient(userAgent, interval, append(opts, WithRegistry(registry))...)
}

// BaseURL returns the API root requests are made against.
func (c *Client) BaseURL() string { return c.endpoints.base }

func get[T any](ctx context.Context, c *Client, url string) (*T, error) {
	var v T
	if err := c.Get(ctx, url, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Summary retrieves registry-wide statistics.
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	return get[Summary](ctx, c, c.endpoints.summary())
}

// Crate retrieves a crate with its categories, keywords and versions.
//
// Returns NOT_FOUND if the crate does not exist, or if name contains "/",
// in which case no request is made.
func (c *Client) Crate(ctx context.Context, name string) (*CrateResponse, error) {
	u, err := c.endpoints.crate(name)
	if err != nil {
		return nil, err
	}
	return get[CrateResponse](ctx, c, u)
}

// CrateDownloads retrieves the download statistics of a crate.
func (c *Client) CrateDownloads(ctx context.Context, name string) (*CrateDownloads, error) {
	u, err := c.endpoints.downloads(name)
	if err != nil {
		return nil, err
	}
	return get[CrateDownloads](ctx, c, u)
}

// CrateOwners retrieves the owners of a crate.
func (c *Client) CrateOwners(ctx context.Context, name string) ([]User, error) {
	u, err := c.endpoints.owners(name)
	if err != nil {
		return nil, err
	}
	resp, err := get[ownersResponse](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// CrateAuthors retrieves the author names of one version of a crate.
func (c *Client) CrateAuthors(ctx context.Context, name, version string) (*Authors, error) {
	u, err := c.endpoints.authors(name, version)
	if err != nil {
		return nil, err
	}
	resp, err := get[authorsResponse](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return &resp.Meta, nil
}

// CrateDependencies retrieves the dependencies of one version of a crate.
func (c *Client) CrateDependencies(ctx context.Context, name, version string) ([]Dependency, error) {
	u, err := c.endpoints.dependencies(name, version)
	if err != nil {
		return nil, err
	}
	resp, err := get[dependenciesResponse](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return resp.Dependencies, nil
}

// ReverseDependenciesPage retrieves one page (up to 100 entries) of the
// crate versions depending on a crate. Page numbers start at 1; 0 is
// treated as 1.
func (c *Client) ReverseDependenciesPage(ctx context.Context, name string, page uint64) (*ReverseDependencies, error) {
	u, err := c.endpoints.reverseDependencies(name, page)
	if err != nil {
		return nil, err
	}
	raw, err := get[reverseDependenciesPage](ctx, c, u)
	if err != nil {
		return nil, err
	}
	var rdeps ReverseDependencies
	rdeps.extend(*raw)
	return &rdeps, nil
}

// ReverseDependencies retrieves every crate version depending on a crate,
// walking all pages. Meta.Total is the total reported by the last page.
func (c *Client) ReverseDependencies(ctx context.Context, name string) (*ReverseDependencies, error) {
	deps, total, err := collectPages(ctx, "reverse_dependencies", 1,
		func(ctx context.Context, n uint64) (Page[ReverseDependency], error) {
			p, err := c.ReverseDependenciesPage(ctx, name, n)
			if err != nil {
				return Page[ReverseDependency]{}, err
			}
			return Page[ReverseDependency]{Number: n, Items: p.Dependencies, Total: p.Meta.Total}, nil
		})
	if err != nil {
		return nil, err
	}
	return &ReverseDependencies{Dependencies: deps, Meta: Meta{Total: total}}, nil
}

// ReverseDependencyCount returns the number of reverse dependencies of a
// crate. It needs a single request.
func (c *Client) ReverseDependencyCount(ctx context.Context, name string) (uint64, error) {
	p, err := c.ReverseDependenciesPage(ctx, name, 1)
	if err != nil {
		return 0, err
	}
	return p.Meta.Total, nil
}

// Crates retrieves one page of the crate listing described by q.
func (c *Client) Crates(ctx context.Context, q CratesQuery) (*CratesPage, error) {
	return get[CratesPage](ctx, c, c.endpoints.crates(q))
}

// AllCrates retrieves every crate matching q, starting at q's page and
// continuing until the registry returns an empty page. Prefer
// [Client.CratesStream] for large listings.
func (c *Client) AllCrates(ctx context.Context, q CratesQuery) ([]Crate, error) {
	all, _, err := collectPages(ctx, "crates", q.page(),
		func(ctx context.Context, n uint64) (Page[Crate], error) {
			pq := q
			pq.Page = n
			p, err := c.Crates(ctx, pq)
			if err != nil {
				return Page[Crate]{}, err
			}
			return Page[Crate]{Number: n, Items: p.Crates, Total: p.Meta.Total}, nil
		})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// CratesStream returns a lazy stream over the crates matching q. No request
// is made until the first call to [CrateStream.Next].
func (c *Client) CratesStream(q CratesQuery) *CrateStream {
	return newCrateStream(c, q)
}

// User retrieves a user by login name.
func (c *Client) User(ctx context.Context, username string) (*User, error) {
	resp, err := get[userResponse](ctx, c, c.endpoints.user(username))
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}
