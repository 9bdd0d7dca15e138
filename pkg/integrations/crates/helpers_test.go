package crates

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/cratesio/pkg/integrations"
)

// recorder records the request URIs a test server receives.
type recorder struct {
	mu   sync.Mutex
	uris []string
}

func (r *recorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uris = append(r.uris, req.URL.RequestURI())
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.uris)
}

func (r *recorder) requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.uris...)
}

// countPrefix returns how many recorded URIs start with prefix.
func (r *recorder) countPrefix(prefix string) int {
	n := 0
	for _, u := range r.requests() {
		if strings.HasPrefix(u, prefix) {
			n++
		}
	}
	return n
}

// testClient starts a server running handler and returns a client pointed
// at it with rate limiting disabled.
func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()

	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	c, err := Build("cratesio-test (test@example.com)", 0, &integrations.Registry{URL: server.URL + "/api/v1"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return c, rec
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// listing builds a crates page with the given names.
func listing(total uint64, names ...string) CratesPage {
	p := CratesPage{Crates: []Crate{}, Meta: Meta{Total: total}}
	for _, n := range names {
		p.Crates = append(p.Crates, Crate{ID: n, Name: n, MaxVersion: "1.0.0"})
	}
	return p
}

// rdepsPage builds a reverse dependency page in wire form: one version and
// one edge per dependent, version IDs starting at firstID.
func rdepsPage(total uint64, firstID uint64, dependents ...string) reverseDependenciesPage {
	p := reverseDependenciesPage{Dependencies: []Dependency{}, Versions: []Version{}, Meta: Meta{Total: total}}
	for i, name := range dependents {
		id := firstID + uint64(i)
		p.Versions = append(p.Versions, Version{ID: id, Crate: name, Num: "0.1.0"})
		p.Dependencies = append(p.Dependencies, Dependency{
			ID:        1000 + id,
			VersionID: id,
			CrateID:   "serde",
			Req:       fmt.Sprintf("^1.0.%d", i),
			Kind:      "normal",
		})
	}
	return p
}
