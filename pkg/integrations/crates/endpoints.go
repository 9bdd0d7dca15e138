package crates

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/cratesio/pkg/errors"
)

// reverseDependenciesPerPage is the page size requested for reverse
// dependencies, the registry's maximum.
const reverseDependenciesPerPage = 100

// endpoints maps operations to URLs beneath a base URL that ends in "/".
type endpoints struct {
	base string
}

func (e endpoints) summary() string { return e.base + "summary" }

// crate returns the detail URL of a crate.
//
// A name containing "/" would address a different resource, so it is
// rejected as NOT_FOUND for the URL it would have produced, without any
// request being made.
func (e endpoints) crate(name string) (string, error) {
	if strings.Contains(name, "/") {
		return "", errors.NotFound(e.base + "crates/" + name)
	}
	return e.base + "crates/" + url.PathEscape(name), nil
}

// nested returns the crate URL with a trailing slash, so that sub-resources
// join beneath it rather than replacing the last segment. A rejected name
// reports that trailing-slash base.
func (e endpoints) nested(name string, rel ...string) (string, error) {
	if strings.Contains(name, "/") {
		return "", errors.NotFound(e.base + "crates/" + name + "/")
	}
	segs := make([]string, len(rel))
	for i, s := range rel {
		segs[i] = url.PathEscape(s)
	}
	return e.base + "crates/" + url.PathEscape(name) + "/" + strings.Join(segs, "/"), nil
}

func (e endpoints) downloads(name string) (string, error) { return e.nested(name, "downloads") }

func (e endpoints) owners(name string) (string, error) { return e.nested(name, "owners") }

func (e endpoints) authors(name, version string) (string, error) {
	return e.nested(name, version, "authors")
}

func (e endpoints) dependencies(name, version string) (string, error) {
	return e.nested(name, version, "dependencies")
}

// reverseDependencies returns the URL of one page of reverse dependencies.
// Page numbers below 1 are treated as 1.
func (e endpoints) reverseDependencies(name string, page uint64) (string, error) {
	u, err := e.nested(name, "reverse_dependencies")
	if err != nil {
		return "", err
	}
	page = max(page, 1)
	return u + "?per_page=" + strconv.Itoa(reverseDependenciesPerPage) +
		"&page=" + strconv.FormatUint(page, 10), nil
}

func (e endpoints) crates(q CratesQuery) string {
	return e.base + "crates?" + q.values().Encode()
}

func (e endpoints) user(username string) string {
	return e.base + "users/" + url.PathEscape(username)
}
