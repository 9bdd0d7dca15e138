package crates

import (
	"context"

	"github.com/matzehuels/cratesio/pkg/observability"
)

// Page is one page of a paginated listing.
type Page[T any] struct {
	Number uint64 // 1-based page number
	Items  []T
	Total  uint64 // total across all pages, as reported with this page
}

// pageFetcher loads a single page.
type pageFetcher[T any] func(ctx context.Context, number uint64) (Page[T], error)

// collectPages loads pages first, first+1, ... until a page comes back
// empty, and returns the concatenated items with the total reported by the
// last non-empty page. Pages are fetched one at a time. Any error aborts the
// walk and discards what was collected.
func collectPages[T any](ctx context.Context, endpoint string, first uint64, fetch pageFetcher[T]) ([]T, uint64, error) {
	var (
		items []T
		total uint64
	)
	for n := max(first, 1); ; n++ {
		p, err := fetch(ctx, n)
		if err != nil {
			return nil, 0, err
		}
		observability.Pagination().OnPage(ctx, endpoint, n, len(p.Items), p.Total)
		if len(p.Items) == 0 {
			return items, total, nil
		}
		items = append(items, p.Items...)
		total = p.Total
	}
}
