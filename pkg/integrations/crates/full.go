package crates

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cratesio/pkg/errors"
)

// FullCrate retrieves a crate together with its downloads, owners, reverse
// dependencies and versions, each version with authors and dependencies
// resolved. With allVersions false only the primary (newest) version is
// resolved.
//
// The crate itself is fetched first; the remaining requests are issued
// concurrently but still pass through the client's rate limiter one at a
// time. The first failure cancels the outstanding requests and is returned;
// a partial result is never returned.
//
// A crate without versions is reported as NOT_FOUND.
func (c *Client) FullCrate(ctx context.Context, name string, allVersions bool) (*FullCrate, error) {
	resp, err := c.Crate(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(resp.Versions) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "crate %s has no versions", name)
	}

	versions := resp.Versions[:1]
	if allVersions {
		versions = resp.Versions
	}

	var (
		full      = make([]FullVersion, len(versions))
		downloads *CrateDownloads
		owners    []User
		rdeps     *ReverseDependencies
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range versions {
		g.Go(func() error {
			fv, err := c.fullVersion(gctx, name, v)
			if err != nil {
				return err
			}
			full[i] = fv
			return nil
		})
	}
	g.Go(func() (err error) {
		downloads, err = c.CrateDownloads(gctx, name)
		return err
	})
	g.Go(func() (err error) {
		owners, err = c.CrateOwners(gctx, name)
		return err
	})
	g.Go(func() (err error) {
		rdeps, err = c.ReverseDependencies(gctx, name)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	krate := resp.Crate
	return &FullCrate{
		ID:                  krate.ID,
		Name:                krate.Name,
		Description:         krate.Description,
		License:             resp.Versions[0].License,
		Documentation:       krate.Documentation,
		Homepage:            krate.Homepage,
		Repository:          krate.Repository,
		TotalDownloads:      krate.Downloads,
		MaxVersion:          krate.MaxVersion,
		MaxStableVersion:    krate.MaxStableVersion,
		CreatedAt:           krate.CreatedAt,
		UpdatedAt:           krate.UpdatedAt,
		Categories:          resp.Categories,
		Keywords:            resp.Keywords,
		Downloads:           *downloads,
		Owners:              owners,
		ReverseDependencies: *rdeps,
		Versions:            full,
	}, nil
}

// fullVersion resolves the authors and dependencies of v concurrently.
func (c *Client) fullVersion(ctx context.Context, name string, v Version) (FullVersion, error) {
	var (
		authors *Authors
		deps    []Dependency
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		authors, err = c.CrateAuthors(gctx, name, v.Num)
		return err
	})
	g.Go(func() (err error) {
		deps, err = c.CrateDependencies(gctx, name, v.Num)
		return err
	})
	if err := g.Wait(); err != nil {
		return FullVersion{}, err
	}

	return FullVersion{
		Version:      v,
		AuthorNames:  authors.Names,
		Dependencies: deps,
	}, nil
}
