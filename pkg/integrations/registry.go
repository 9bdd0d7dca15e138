package integrations

import (
	"net/http"
	"os"
	"strings"

	"github.com/matzehuels/cratesio/pkg/errors"
)

// DefaultBaseURL is the API root of the public crates.io registry.
const DefaultBaseURL = "https://crates.io/api/v1/"

// Registry identifies the registry a client talks to. The zero value (and a
// nil *Registry) means the public crates.io registry.
type Registry struct {
	// URL is the API root, e.g. "https://crates.my-registry.com/api/v1/".
	URL string

	// Name is the Cargo registry name. When set, the token is read from
	// the CARGO_REGISTRIES_<NAME>_TOKEN environment variable.
	Name string

	// Token is used when no environment token is found.
	Token string
}

// BaseURL returns the registry's API root, always ending in a slash so that
// relative endpoint paths resolve beneath it.
func (r *Registry) BaseURL() string {
	u := DefaultBaseURL
	if r != nil && r.URL != "" {
		u = r.URL
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// TokenEnvVar returns the environment variable holding the token for the
// named registry, following Cargo's naming convention.
func TokenEnvVar(name string) string {
	return "CARGO_REGISTRIES_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_TOKEN"
}

// AuthToken resolves the token to send: the registry's environment variable
// first, then the explicit token. Returns "" when neither is set.
func (r *Registry) AuthToken() string {
	if r == nil {
		return ""
	}
	if r.Name != "" {
		if tok := os.Getenv(TokenEnvVar(r.Name)); tok != "" {
			return tok
		}
	}
	return r.Token
}

// SetupHeaders builds the default headers for every request: the mandatory
// User-Agent and, when a token resolves, Authorization. Invalid header values
// are rejected here so that a bad agent string fails at construction.
func SetupHeaders(userAgent string, r *Registry) (http.Header, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New(errors.ErrCodeInvalidHeader, "user agent cannot be empty")
	}
	if err := errors.ValidateHeaderValue("User-Agent", userAgent); err != nil {
		return nil, err
	}

	h := http.Header{}
	h.Set("User-Agent", userAgent)

	if tok := r.AuthToken(); tok != "" {
		if err := errors.ValidateHeaderValue("Authorization", tok); err != nil {
			return nil, err
		}
		h.Set("Authorization", tok)
	}
	return h, nil
}
