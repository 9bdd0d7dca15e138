package crates

import (
	"context"
	"io"
	"iter"
	"sync"

	"github.com/matzehuels/cratesio/pkg/observability"
)

// CrateStream yields the crates of a listing one at a time, fetching the
// next page only when the buffered crates run out.
//
// The stream ends at the first empty page. A failed page fetch is returned
// once by [CrateStream.Next]; after that the stream is exhausted. A stream
// cannot be restarted; create a new one with [Client.CratesStream].
//
// A CrateStream is safe for concurrent use. Concurrent callers are served in
// turn and at most one page fetch is in flight at any time.
type CrateStream struct {
	client *Client
	query  CratesQuery

	mu     sync.Mutex
	buf    []Crate
	closed bool
}

func newCrateStream(c *Client, q CratesQuery) *CrateStream {
	q.Page = q.page()
	return &CrateStream{client: c, query: q}
}

// Next returns the next crate. It returns io.EOF once the listing is
// exhausted, and the fetch error if loading a page failed.
func (s *CrateStream) Next(ctx context.Context) (Crate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if len(s.buf) > 0 {
			k := s.buf[0]
			s.buf = s.buf[1:]
			return k, nil
		}
		if s.closed {
			return Crate{}, io.EOF
		}

		page, err := s.client.Crates(ctx, s.query)
		if err != nil {
			s.closed = true
			return Crate{}, err
		}
		observability.Pagination().OnPage(ctx, "crates", s.query.Page, len(page.Crates), page.Meta.Total)
		if len(page.Crates) == 0 {
			s.closed = true
			continue
		}
		s.query.Page++
		s.buf = page.Crates
	}
}

// All returns an iterator over the remaining crates. Iteration stops after
// a yielded error.
//
//	for krate, err := range stream.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(krate.Name)
//	}
func (s *CrateStream) All(ctx context.Context) iter.Seq2[Crate, error] {
	return func(yield func(Crate, error) bool) {
		for {
			k, err := s.Next(ctx)
			if err == io.EOF {
				return
			}
			if !yield(k, err) || err != nil {
				return
			}
		}
	}
}
