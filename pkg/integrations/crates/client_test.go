package crates

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/cratesio/pkg/errors"
	"github.com/matzehuels/cratesio/pkg/integrations"
)

func TestNewClient(t *testing.T) {
	c, err := NewClient("my_bot (help@my_bot.com)", time.Second)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.Client == nil {
		t.Fatal("expected client to be initialized")
	}
	if got := c.BaseURL(); got != integrations.DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", got, integrations.DefaultBaseURL)
	}
	if got := c.Limiter().Interval(); got != time.Second {
		t.Errorf("Limiter().Interval() = %v, want 1s", got)
	}
}

func TestNewClient_InvalidUserAgent(t *testing.T) {
	for _, ua := range []string{"", "  ", "bot\r\nX-Injected: 1"} {
		_, err := NewClient(ua, time.Second)
		if !errors.Is(err, errors.ErrCodeInvalidHeader) {
			t.Errorf("NewClient(%q) error = %v, want INVALID_HEADER", ua, err)
		}
	}
}

func TestBuild_InvalidURL(t *testing.T) {
	_, err := Build("ua", time.Second, &integrations.Registry{URL: "ftp://example.com"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Build() error = %v, want INVALID_INPUT", err)
	}
}

func TestBuild_RegistryToken(t *testing.T) {
	t.Setenv("CARGO_REGISTRIES_MY_REGISTRY_TOKEN", "env-token")

	var gotAuth, gotUA string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		writeJSON(t, w, Summary{})
	})

	// Rebuild against the same server with a named registry.
	named, err := Build("named-agent", 0, &integrations.Registry{
		URL:   c.BaseURL(),
		Name:  "my-registry",
		Token: "explicit-token",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := named.Summary(context.Background()); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if gotAuth != "env-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "env-token")
	}
	if gotUA != "named-agent" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "named-agent")
	}
}

func TestClient_Summary(t *testing.T) {
	c, rec := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/summary" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, Summary{
			NumCrates:       150000,
			NumDownloads:    90000000000,
			MostDownloaded:  []Crate{{ID: "syn", Name: "syn"}},
			PopularKeywords: []Keyword{{ID: "serde", Keyword: "serde", CratesCount: 3000}},
		})
	})

	s, err := c.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if s.NumCrates != 150000 {
		t.Errorf("NumCrates = %d, want 150000", s.NumCrates)
	}
	if len(s.MostDownloaded) != 1 || s.MostDownloaded[0].Name != "syn" {
		t.Errorf("MostDownloaded = %+v", s.MostDownloaded)
	}
	if len(s.PopularKeywords) != 1 || s.PopularKeywords[0].CratesCount != 3000 {
		t.Errorf("PopularKeywords = %+v", s.PopularKeywords)
	}
	if rec.count() != 1 {
		t.Errorf("requests = %d, want 1", rec.count())
	}
}

func TestClient_Crate(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/crates/serde" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{
			"crate": {"id": "serde", "name": "serde", "downloads": 1000000, "max_version": "1.0.200",
			          "description": null, "created_at": "2014-12-05T20:20:39.487502Z", "updated_at": "2024-05-01T00:00:00Z"},
			"categories": [{"id": "encoding", "category": "Encoding", "slug": "encoding", "description": "", "crates_cnt": 10}],
			"keywords": [{"id": "serde", "keyword": "serde", "crates_cnt": 2000}],
			"versions": [{"id": 2, "crate": "serde", "num": "1.0.200", "license": "MIT OR Apache-2.0", "features": {"std": []}},
			             {"id": 1, "crate": "serde", "num": "1.0.199", "license": null}]
		}`))
	})

	resp, err := c.Crate(context.Background(), "serde")
	if err != nil {
		t.Fatalf("Crate() error = %v", err)
	}
	if resp.Crate.Name != "serde" || resp.Crate.MaxVersion != "1.0.200" {
		t.Errorf("Crate = %+v", resp.Crate)
	}
	if resp.Crate.Description != "" {
		t.Errorf("Description = %q, want empty for null", resp.Crate.Description)
	}
	if resp.Crate.CreatedAt.Year() != 2014 {
		t.Errorf("CreatedAt = %v", resp.Crate.CreatedAt)
	}
	if len(resp.Versions) != 2 || resp.Versions[0].License != "MIT OR Apache-2.0" {
		t.Errorf("Versions = %+v", resp.Versions)
	}
	if _, ok := resp.Versions[0].Features["std"]; !ok {
		t.Error("expected feature std on primary version")
	}
}

func TestClient_Crate_SlashRejected(t *testing.T) {
	c, rec := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})

	ctx := context.Background()
	calls := map[string]func() error{
		"Crate":                   func() error { _, err := c.Crate(ctx, "a/b"); return err },
		"CrateDownloads":          func() error { _, err := c.CrateDownloads(ctx, "a/b"); return err },
		"CrateOwners":             func() error { _, err := c.CrateOwners(ctx, "a/b"); return err },
		"CrateAuthors":            func() error { _, err := c.CrateAuthors(ctx, "a/b", "1.0.0"); return err },
		"CrateDependencies":       func() error { _, err := c.CrateDependencies(ctx, "a/b", "1.0.0"); return err },
		"ReverseDependenciesPage": func() error { _, err := c.ReverseDependenciesPage(ctx, "a/b", 1); return err },
		"ReverseDependencies":     func() error { _, err := c.ReverseDependencies(ctx, "a/b"); return err },
		"FullCrate":               func() error { _, err := c.FullCrate(ctx, "a/b", true); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if !errors.Is(err, errors.ErrCodeNotFound) {
				t.Fatalf("error = %v, want NOT_FOUND", err)
			}
			if !strings.Contains(err.Error(), "a/b") {
				t.Errorf("error %q does not mention a/b", err)
			}
		})
	}
	if rec.count() != 0 {
		t.Errorf("requests = %d, want 0", rec.count())
	}
}

func TestClient_Crate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.Code
		check    func(t *testing.T, e *errors.Error)
	}{
		{
			name:     "not found",
			status:   http.StatusNotFound,
			wantCode: errors.ErrCodeNotFound,
			check: func(t *testing.T, e *errors.Error) {
				if !strings.HasSuffix(e.URL, "/api/v1/crates/serde") {
					t.Errorf("URL = %q", e.URL)
				}
			},
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			body:     "missing user agent",
			wantCode: errors.ErrCodePermissionDenied,
			check: func(t *testing.T, e *errors.Error) {
				if !strings.Contains(e.Message, "missing user agent") {
					t.Errorf("Message = %q", e.Message)
				}
			},
		},
		{
			name:     "server error",
			status:   http.StatusBadGateway,
			wantCode: errors.ErrCodeNetwork,
		},
		{
			name:     "api error envelope",
			status:   http.StatusOK,
			body:     `{"errors": [{"detail": "crate ` + "`serde`" + ` does not exist"}]}`,
			wantCode: errors.ErrCodeAPI,
			check: func(t *testing.T, e *errors.Error) {
				if e.Message != "crate `serde` does not exist" {
					t.Errorf("Message = %q", e.Message)
				}
			},
		},
		{
			name:     "schema mismatch",
			status:   http.StatusOK,
			body:     `{"crate": {"id": "serde", "downloads": "many"}}`,
			wantCode: errors.ErrCodeDecode,
			check: func(t *testing.T, e *errors.Error) {
				if e.Path != ".crate.downloads" {
					t.Errorf("Path = %q, want .crate.downloads", e.Path)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Crate(context.Background(), "serde")
			e := asError(t, err)
			if e.Code != tt.wantCode {
				t.Fatalf("Code = %v, want %v (err: %v)", e.Code, tt.wantCode, err)
			}
			if tt.check != nil {
				tt.check(t, e)
			}
		})
	}
}

func TestClient_CrateDownloads(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/crates/serde/downloads" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{
			"version_downloads": [{"date": "2024-01-31", "downloads": 42, "version": 7}],
			"meta": {"extra_downloads": [{"date": "2024-01-30", "downloads": 3}]}
		}`))
	})

	d, err := c.CrateDownloads(context.Background(), "serde")
	if err != nil {
		t.Fatalf("CrateDownloads() error = %v", err)
	}
	if len(d.VersionDownloads) != 1 {
		t.Fatalf("VersionDownloads = %+v", d.VersionDownloads)
	}
	vd := d.VersionDownloads[0]
	if vd.Date.String() != "2024-01-31" || vd.Downloads != 42 || vd.Version != 7 {
		t.Errorf("VersionDownloads[0] = %+v", vd)
	}
	if len(d.Meta.ExtraDownloads) != 1 || d.Meta.ExtraDownloads[0].Date.Day() != 30 {
		t.Errorf("ExtraDownloads = %+v", d.Meta.ExtraDownloads)
	}
}

func TestClient_CrateDownloads_BadDate(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version_downloads": [
			{"date": "2024-01-30", "downloads": 1, "version": 1},
			{"date": "31/01/2024", "downloads": 1, "version": 1}
		], "meta": {}}`))
	})

	_, err := c.CrateDownloads(context.Background(), "serde")
	e := asError(t, err)
	if e.Code != errors.ErrCodeDecode {
		t.Fatalf("error = %v, want JSON_DECODE_ERROR", err)
	}
	if e.Path != ".version_downloads[1].date" {
		t.Errorf("Path = %q, want .version_downloads[1].date", e.Path)
	}
}

func TestClient_Crate_DecodePathIndexesVersions(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"crate": {"id": "serde", "name": "serde"}, "versions": [
			{"id": 1, "num": "1.0.1", "license": "MIT"},
			{"id": 2, "num": "1.0.0", "license": 42}
		]}`))
	})

	_, err := c.Crate(context.Background(), "serde")
	e := asError(t, err)
	if e.Code != errors.ErrCodeDecode {
		t.Fatalf("error = %v, want JSON_DECODE_ERROR", err)
	}
	if e.Path != ".versions[1].license" {
		t.Errorf("Path = %q, want .versions[1].license", e.Path)
	}
}

func TestClient_CrateOwnersAuthorsDependencies(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/crates/serde/owners":
			writeJSON(t, w, ownersResponse{Users: []User{{ID: 3, Login: "dtolnay", Kind: "user"}}})
		case "/api/v1/crates/serde/1.0.200/authors":
			w.Write([]byte(`{"meta": {"names": ["Erick Tryzelaar", "David Tolnay"]}, "users": []}`))
		case "/api/v1/crates/serde/1.0.200/dependencies":
			writeJSON(t, w, dependenciesResponse{Dependencies: []Dependency{
				{ID: 1, VersionID: 2, CrateID: "serde_derive", Req: "^1", Kind: "normal", Optional: true},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	owners, err := c.CrateOwners(ctx, "serde")
	if err != nil {
		t.Fatalf("CrateOwners() error = %v", err)
	}
	if len(owners) != 1 || owners[0].Login != "dtolnay" {
		t.Errorf("owners = %+v", owners)
	}

	authors, err := c.CrateAuthors(ctx, "serde", "1.0.200")
	if err != nil {
		t.Fatalf("CrateAuthors() error = %v", err)
	}
	if len(authors.Names) != 2 || authors.Names[1] != "David Tolnay" {
		t.Errorf("authors = %+v", authors.Names)
	}

	deps, err := c.CrateDependencies(ctx, "serde", "1.0.200")
	if err != nil {
		t.Fatalf("CrateDependencies() error = %v", err)
	}
	if len(deps) != 1 || deps[0].CrateID != "serde_derive" || !deps[0].Optional {
		t.Errorf("deps = %+v", deps)
	}
}

func TestClient_User(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/dtolnay" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, userResponse{User: User{ID: 3, Login: "dtolnay", Name: "David Tolnay"}})
	})

	u, err := c.User(context.Background(), "dtolnay")
	if err != nil {
		t.Fatalf("User() error = %v", err)
	}
	if u.ID != 3 || u.Name != "David Tolnay" {
		t.Errorf("User() = %+v", u)
	}
}

func TestClient_ReverseDependenciesPage(t *testing.T) {
	c, rec := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, rdepsPage(1, 10, "tokio"))
	})

	// Page 0 is coerced to page 1.
	rdeps, err := c.ReverseDependenciesPage(context.Background(), "serde", 0)
	if err != nil {
		t.Fatalf("ReverseDependenciesPage() error = %v", err)
	}
	if len(rdeps.Dependencies) != 1 || rdeps.Dependencies[0].CrateVersion.Crate != "tokio" {
		t.Errorf("Dependencies = %+v", rdeps.Dependencies)
	}

	want := "/api/v1/crates/serde/reverse_dependencies?per_page=100&page=1"
	if got := rec.requests(); len(got) != 1 || got[0] != want {
		t.Errorf("requests = %v, want [%s]", got, want)
	}
}

func TestClient_ReverseDependencies(t *testing.T) {
	c, rec := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(t, w, rdepsPage(3, 1, "tokio", "axum"))
		case "2":
			writeJSON(t, w, rdepsPage(4, 3, "reqwest"))
		default:
			writeJSON(t, w, rdepsPage(4, 0))
		}
	})

	rdeps, err := c.ReverseDependencies(context.Background(), "serde")
	if err != nil {
		t.Fatalf("ReverseDependencies() error = %v", err)
	}

	var names []string
	for _, d := range rdeps.Dependencies {
		if d.Dependency.VersionID != d.CrateVersion.ID {
			t.Errorf("pair joined on %d != %d", d.Dependency.VersionID, d.CrateVersion.ID)
		}
		names = append(names, d.CrateVersion.Crate)
	}
	if strings.Join(names, ",") != "tokio,axum,reqwest" {
		t.Errorf("dependents = %v", names)
	}
	if rdeps.Meta.Total != 4 {
		t.Errorf("Total = %d, want 4 (last non-empty page)", rdeps.Meta.Total)
	}
	if rec.count() != 3 {
		t.Errorf("requests = %d, want 3", rec.count())
	}
}

func TestClient_ReverseDependencies_FailFast(t *testing.T) {
	c, rec := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, rdepsPage(3, 1, "tokio"))
	})

	rdeps, err := c.ReverseDependencies(context.Background(), "serde")
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("error = %v, want NETWORK_ERROR", err)
	}
	if rdeps != nil {
		t.Errorf("expected no partial result, got %+v", rdeps)
	}
	if rec.count() != 2 {
		t.Errorf("requests = %d, want 2", rec.count())
	}
}

func TestClient_ReverseDependencyCount(t *testing.T) {
	c, rec := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, rdepsPage(1234, 1, "tokio"))
	})

	n, err := c.ReverseDependencyCount(context.Background(), "serde")
	if err != nil {
		t.Fatalf("ReverseDependencyCount() error = %v", err)
	}
	if n != 1234 {
		t.Errorf("count = %d, want 1234", n)
	}
	if rec.count() != 1 {
		t.Errorf("requests = %d, want 1", rec.count())
	}
}

func TestClient_Crates(t *testing.T) {
	c, rec := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, listing(2, "serde", "serde_json"))
	})

	q := NewCratesQueryBuilder().Sort(SortDownloads).Search("serde").PageSize(2).Build()
	page, err := c.Crates(context.Background(), q)
	if err != nil {
		t.Fatalf("Crates() error = %v", err)
	}
	if len(page.Crates) != 2 || page.Meta.Total != 2 {
		t.Errorf("page = %+v", page)
	}

	want := "/api/v1/crates?page=1&per_page=2&q=serde&sort=downloads"
	if got := rec.requests(); got[0] != want {
		t.Errorf("request = %q, want %q", got[0], want)
	}
}

func TestClient_AllCrates(t *testing.T) {
	pages := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
	c, rec := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(t, w, listing(5, pages[0]...))
		case "2":
			writeJSON(t, w, listing(5, pages[1]...))
		case "3":
			writeJSON(t, w, listing(5, pages[2]...))
		default:
			writeJSON(t, w, listing(5))
		}
	})

	all, err := c.AllCrates(context.Background(), CratesQuery{PerPage: 2})
	if err != nil {
		t.Fatalf("AllCrates() error = %v", err)
	}
	if len(all) != 5 || all[0].Name != "a" || all[4].Name != "e" {
		t.Errorf("AllCrates() = %+v", all)
	}
	// k non-empty pages take k+1 requests.
	if rec.count() != len(pages)+1 {
		t.Errorf("requests = %d, want %d", rec.count(), len(pages)+1)
	}
}
