package crates

import (
	"encoding/json"
	"time"
)

// Date is a calendar date as the registry reports download statistics
// ("2024-01-31"). The time component is always midnight UTC.
type Date struct {
	time.Time
}

// UnmarshalJSON parses a "YYYY-MM-DD" string. A JSON null leaves d unchanged.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON formats d as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// String returns the date as "YYYY-MM-DD".
func (d Date) String() string { return d.Format(time.DateOnly) }

// Meta holds pagination information.
type Meta struct {
	Total uint64 `json:"total"` // Total number of results across all pages
}

// CrateLinks holds links to API endpoints with crate details.
type CrateLinks struct {
	OwnerTeam           string `json:"owner_team"`
	OwnerUser           string `json:"owner_user"`
	Owners              string `json:"owners"`
	ReverseDependencies string `json:"reverse_dependencies"`
	VersionDownloads    string `json:"version_downloads"`
	Versions            string `json:"versions,omitempty"`
}

// Crate is a crate published to the registry.
//
// Categories and Keywords are only set when the crate was loaded by name,
// not when it came from a listing.
type Crate struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	Documentation    string     `json:"documentation,omitempty"`
	Homepage         string     `json:"homepage,omitempty"`
	Repository       string     `json:"repository,omitempty"`
	Downloads        uint64     `json:"downloads"`
	RecentDownloads  uint64     `json:"recent_downloads,omitempty"`
	Categories       []string   `json:"categories,omitempty"`
	Keywords         []string   `json:"keywords,omitempty"`
	Versions         []uint64   `json:"versions,omitempty"`
	MaxVersion       string     `json:"max_version"`
	MaxStableVersion string     `json:"max_stable_version,omitempty"`
	Links            CrateLinks `json:"links"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ExactMatch       bool       `json:"exact_match,omitempty"`
}

// CratesPage is one page of a crate listing.
type CratesPage struct {
	Crates     []Crate    `json:"crates"`
	Versions   []Version  `json:"versions,omitempty"`
	Keywords   []Keyword  `json:"keywords,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	Meta       Meta       `json:"meta"`
}

// VersionLinks holds links to API endpoints with version details.
type VersionLinks struct {
	Dependencies     string `json:"dependencies"`
	VersionDownloads string `json:"version_downloads"`
}

// Version is one published version of a crate.
type Version struct {
	ID          uint64              `json:"id"`
	Crate       string              `json:"crate"`
	Num         string              `json:"num"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DLPath      string              `json:"dl_path"`
	Downloads   uint64              `json:"downloads"`
	Features    map[string][]string `json:"features"`
	Yanked      bool                `json:"yanked"`
	License     string              `json:"license,omitempty"`
	ReadmePath  string              `json:"readme_path,omitempty"`
	Links       VersionLinks        `json:"links"`
	CrateSize   uint64              `json:"crate_size,omitempty"`
	PublishedBy *User               `json:"published_by,omitempty"`
}

// Category is a crate category.
type Category struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CratesCount uint64    `json:"crates_cnt"`
	CreatedAt   time.Time `json:"created_at"`
}

// Keyword is a keyword crates can be tagged with.
type Keyword struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	CratesCount uint64    `json:"crates_cnt"`
	CreatedAt   time.Time `json:"created_at"`
}

// CrateResponse is the full response for a single crate. Versions are
// ordered newest first; Versions[0] is the primary version.
type CrateResponse struct {
	Crate      Crate      `json:"crate"`
	Categories []Category `json:"categories"`
	Keywords   []Keyword  `json:"keywords"`
	Versions   []Version  `json:"versions"`
}

// Summary holds registry-wide statistics.
type Summary struct {
	JustUpdated            []Crate    `json:"just_updated"`
	MostDownloaded         []Crate    `json:"most_downloaded"`
	NewCrates              []Crate    `json:"new_crates"`
	MostRecentlyDownloaded []Crate    `json:"most_recently_downloaded"`
	NumCrates              uint64     `json:"num_crates"`
	NumDownloads           uint64     `json:"num_downloads"`
	PopularCategories      []Category `json:"popular_categories"`
	PopularKeywords        []Keyword  `json:"popular_keywords"`
}

// VersionDownloads is the download count of one version on one day.
type VersionDownloads struct {
	Date      Date   `json:"date"`
	Downloads uint64 `json:"downloads"`
	Version   uint64 `json:"version"`
}

// ExtraDownloads are downloads not attributed to a version. Only old
// download data has them.
type ExtraDownloads struct {
	Date      Date   `json:"date"`
	Downloads uint64 `json:"downloads"`
}

// CrateDownloadsMeta holds additional download data.
type CrateDownloadsMeta struct {
	ExtraDownloads []ExtraDownloads `json:"extra_downloads"`
}

// CrateDownloads holds download statistics for all versions of a crate.
type CrateDownloads struct {
	VersionDownloads []VersionDownloads `json:"version_downloads"`
	Meta             CrateDownloadsMeta `json:"meta"`
}

// User is a registry user.
type User struct {
	ID     uint64 `json:"id"`
	Login  string `json:"login"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Email  string `json:"email,omitempty"`
	Kind   string `json:"kind,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Authors holds the author names of a crate version.
type Authors struct {
	Names []string `json:"names"`
}

// Dependency is one dependency edge of a crate version. VersionID is the
// version that declares the dependency; CrateID is the crate depended on.
type Dependency struct {
	ID              uint64   `json:"id"`
	VersionID       uint64   `json:"version_id"`
	CrateID         string   `json:"crate_id"`
	Req             string   `json:"req"`
	Kind            string   `json:"kind"`
	Optional        bool     `json:"optional"`
	DefaultFeatures bool     `json:"default_features"`
	Features        []string `json:"features"`
	Target          string   `json:"target,omitempty"`
	Downloads       uint64   `json:"downloads"`
}

// FullVersion is a version with its authors and dependencies resolved.
type FullVersion struct {
	Version
	AuthorNames  []string     `json:"author_names"`
	Dependencies []Dependency `json:"dependencies"`
}

// FullCrate combines everything the registry knows about a crate. It is
// only ever returned complete; see [Client.FullCrate].
type FullCrate struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	License          string    `json:"license,omitempty"`
	Documentation    string    `json:"documentation,omitempty"`
	Homepage         string    `json:"homepage,omitempty"`
	Repository       string    `json:"repository,omitempty"`
	TotalDownloads   uint64    `json:"total_downloads"`
	MaxVersion       string    `json:"max_version"`
	MaxStableVersion string    `json:"max_stable_version,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Categories          []Category          `json:"categories"`
	Keywords            []Keyword           `json:"keywords"`
	Downloads           CrateDownloads      `json:"downloads"`
	Owners              []User              `json:"owners"`
	ReverseDependencies ReverseDependencies `json:"reverse_dependencies"`
	Versions            []FullVersion       `json:"versions"`
}

// Wire envelopes.

type ownersResponse struct {
	Users []User `json:"users"`
}

type authorsResponse struct {
	Meta Authors `json:"meta"`
}

type dependenciesResponse struct {
	Dependencies []Dependency `json:"dependencies"`
}

type userResponse struct {
	User User `json:"user"`
}
