package crates

import (
	"net/url"
	"strconv"

	"github.com/matzehuels/cratesio/pkg/errors"
)

// Sort is the order of a crate listing.
//
// The zero value is [SortRecentUpdates], the registry's default order.
type Sort int

const (
	// SortRecentUpdates sorts by last update, newest first.
	SortRecentUpdates Sort = iota
	// SortAlphabetical sorts by name.
	SortAlphabetical
	// SortRelevance sorts by relevance to the search term. This is the
	// server's own default, so no sort parameter is sent.
	SortRelevance
	// SortDownloads sorts by total downloads.
	SortDownloads
	// SortRecentDownloads sorts by downloads in the last 90 days.
	SortRecentDownloads
	// SortNewlyAdded sorts by creation date, newest first.
	SortNewlyAdded
)

var sortNames = map[Sort]string{
	SortAlphabetical:    "alpha",
	SortRelevance:       "",
	SortDownloads:       "downloads",
	SortRecentDownloads: "recent-downloads",
	SortRecentUpdates:   "recent-updates",
	SortNewlyAdded:      "new",
}

// String returns the wire value of s. SortRelevance has none.
func (s Sort) String() string { return sortNames[s] }

// ParseSort parses a sort name. Besides the wire values it accepts
// "relevance" for [SortRelevance].
func ParseSort(s string) (Sort, error) {
	if s == "relevance" {
		return SortRelevance, nil
	}
	for k, v := range sortNames {
		if v != "" && v == s {
			return k, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput,
		"unknown sort %q (want alpha, relevance, downloads, recent-downloads, recent-updates or new)", s)
}

// Default listing parameters.
const (
	DefaultPerPage uint64 = 30
	DefaultPage    uint64 = 1
)

// CratesQuery filters and orders a crate listing. Zero fields take the
// registry defaults, so CratesQuery{} lists 30 crates per page, most
// recently updated first, starting at page 1.
type CratesQuery struct {
	Sort     Sort
	PerPage  uint64 // 0 means DefaultPerPage
	Page     uint64 // 0 means DefaultPage
	UserID   uint64 // 0 means no owner filter
	Category string
	Search   string
}

func (q CratesQuery) perPage() uint64 {
	if q.PerPage == 0 {
		return DefaultPerPage
	}
	return q.PerPage
}

func (q CratesQuery) page() uint64 {
	if q.Page == 0 {
		return DefaultPage
	}
	return q.Page
}

// values encodes q as listing query parameters. Parameters without a value
// are omitted.
func (q CratesQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.FormatUint(q.page(), 10))
	v.Set("per_page", strconv.FormatUint(q.perPage(), 10))
	if s := q.Sort.String(); s != "" {
		v.Set("sort", s)
	}
	if q.UserID != 0 {
		v.Set("user_id", strconv.FormatUint(q.UserID, 10))
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	return v
}

// CratesQueryBuilder builds a [CratesQuery] step by step.
//
//	q := crates.NewCratesQueryBuilder().
//	    Sort(crates.SortDownloads).
//	    Search("serde").
//	    Build()
type CratesQueryBuilder struct {
	q CratesQuery
}

// NewCratesQueryBuilder returns a builder starting from the defaults.
func NewCratesQueryBuilder() *CratesQueryBuilder {
	return &CratesQueryBuilder{q: CratesQuery{PerPage: DefaultPerPage, Page: DefaultPage}}
}

func (b *CratesQueryBuilder) Sort(s Sort) *CratesQueryBuilder { b.q.Sort = s; return b }
func (b *CratesQueryBuilder) PageSize(n uint64) *CratesQueryBuilder { b.q.PerPage = n; return b }
func (b *CratesQueryBuilder) Page(n uint64) *CratesQueryBuilder { b.q.Page = n; return b }
func (b *CratesQueryBuilder) UserID(id uint64) *CratesQueryBuilder { b.q.UserID = id; return b }
func (b *CratesQueryBuilder) Category(c string) *CratesQueryBuilder { b.q.Category = c; return b }
func (b *CratesQueryBuilder) Search(term string) *CratesQueryBuilder { b.q.Search = term; return b }

// Build returns the query. The builder may be reused.
func (b *CratesQueryBuilder) Build() CratesQuery { return b.q }
