package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/cratesio/pkg/observability"
)

// registryServer starts a fake registry serving fixtures by request path.
// Unknown paths answer 404.
func registryServer(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if raw, ok := body.(string); ok {
			io.WriteString(w, raw)
			return
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server
}

// execute runs the CLI with args against server and returns stdout.
func execute(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)

	base := []string{"--rate-limit", "0s"}
	if server != nil {
		base = append(base, "--registry-url", server.URL+"/api/v1/")
	}
	root.SetArgs(append(base, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
