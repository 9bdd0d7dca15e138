// Package pkg contains the libraries of cratesio, a typed client for the
// crates.io registry API.
//
// # Overview
//
//  1. [integrations/crates] - Typed registry operations, pagination and
//     the aggregate FullCrate fetch
//  2. [integrations] - Shared transport: rate-limited GET, status mapping,
//     response decoding, registry selection and auth headers
//  3. [ratelimit] - One request in flight, minimum spacing between starts
//  4. [errors] - Structured error codes returned by every operation
//  5. [observability] - Hooks for request and pagination events
//  6. [buildinfo] - Version information injected at build time
//
// # Request Flow
//
//	crates.Client operation
//	         ↓
//	endpoint URL (crate names with "/" rejected here)
//	         ↓
//	ratelimit.Limiter.Acquire
//	         ↓
//	HTTP GET → 404 / 403 / other status mapped to errors
//	         ↓
//	error envelope check → typed JSON decode
//
// # Quick Start
//
//	client, err := crates.NewClient("my_bot (help@my_bot.com)", time.Second)
//	if err != nil {
//	    return err
//	}
//	full, err := client.FullCrate(ctx, "serde", false)
//
// [integrations/crates]: https://pkg.go.dev/github.com/matzehuels/cratesio/pkg/integrations/crates
// [integrations]: https://pkg.go.dev/github.com/matzehuels/cratesio/pkg/integrations
// [ratelimit]: https://pkg.go.dev/github.com/matzehuels/cratesio/pkg/ratelimit
// [errors]: https://pkg.go.dev/github.com/matzehuels/cratesio/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cratesio/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cratesio/pkg/buildinfo
package pkg
