package crates_test

import (
	"fmt"

	"github.com/matzehuels/cratesio/pkg/integrations/crates"
)

func ExampleCratesQueryBuilder() {
	q := crates.NewCratesQueryBuilder().
		Sort(crates.SortDownloads).
		Search("serde").
		Build()

	fmt.Println(q.Sort, q.Search, q.PerPage)
	// Output: downloads serde 30
}

func ExampleParseSort() {
	s, err := crates.ParseSort("recent-downloads")
	if err != nil {
		panic(err)
	}
	fmt.Println(s == crates.SortRecentDownloads)
	// Output: true
}
