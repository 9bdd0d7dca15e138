// Package crates provides a typed client for the crates.io registry API.
//
// # Overview
//
// The client maps registry endpoints to Go types: registry summary, crate
// detail, downloads, owners, per-version authors and dependencies, reverse
// dependencies, crate listings and users. [Client.FullCrate] combines all of
// a crate's data into one [FullCrate].
//
// # Usage
//
//	client, err := crates.NewClient("my_bot (help@my_bot.com)", time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	krate, err := client.Crate(ctx, "serde")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(krate.Crate.Name, krate.Crate.MaxVersion)
//
// # Rate Limiting
//
// crates.io's crawler policy allows one request per second. Every request
// of a Client, including those issued concurrently by [Client.FullCrate],
// passes the same limiter: one request in flight, request starts spaced by
// the interval given to [NewClient].
//
// # Pagination
//
// Listings can be read one page at a time ([Client.Crates],
// [Client.ReverseDependenciesPage]), collected eagerly ([Client.AllCrates],
// [Client.ReverseDependencies]) or pulled lazily with a [CrateStream].
// Eager collection stops at the first empty page.
//
// # Reverse Dependencies
//
// The registry returns reverse dependencies as two lists, dependency edges
// and the versions declaring them. [ReverseDependencies] joins them into
// (version, dependency) pairs; edges whose version is missing are dropped.
//
// # Errors
//
// All errors are [*errors.Error] values from the pkg/errors package. A
// crate name containing "/" is reported as NOT_FOUND without a request.
//
// # Other Registries
//
// [Build] and [WithRegistry] target alternative registries. A registry name
// makes the client read its token from CARGO_REGISTRIES_<NAME>_TOKEN.
package crates
