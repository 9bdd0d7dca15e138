// Package integrations provides the HTTP plumbing shared by registry API
// clients.
//
// # Overview
//
// The registry-specific client lives in a subpackage:
//
//   - [crates]: the crates.io API (and private registries speaking it)
//
// This package supplies what every request needs before it reaches that
// client's typed surface:
//
//   - [Client.Fetch]: one rate-limited GET, status classification, body read
//   - [DecodeInto] / [Decode]: error-envelope detection, then typed decoding
//     with the JSON path of any schema mismatch
//   - [Registry] / [SetupHeaders]: base URL, User-Agent and token resolution
//
// # Request Pipeline
//
//	URL -> rate limiter -> HTTP GET -> status check -> body -> decode
//
// A 404 becomes NOT_FOUND with the URL, a 403 becomes PERMISSION_DENIED with
// the server's text, anything else non-2xx or a network failure becomes
// NETWORK_ERROR. 2xx bodies are checked for the registry's error envelope
// before they are decoded, because the registry may report errors with a
// 200 status. See [errors] for the full taxonomy.
//
// There is no caching and no retry: one logical call is one request.
//
// [crates]: github.com/matzehuels/cratesio/pkg/integrations/crates
// [errors]: github.com/matzehuels/cratesio/pkg/errors
package integrations
