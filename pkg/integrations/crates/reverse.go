package crates

// ReverseDependency pairs a dependency edge with the version that declares
// it: CrateVersion depends on the crate being queried.
type ReverseDependency struct {
	CrateVersion Version    `json:"crate_version"`
	Dependency   Dependency `json:"dependency"`
}

// ReverseDependencies lists the crate versions that depend on a crate.
type ReverseDependencies struct {
	Dependencies []ReverseDependency `json:"dependencies"`
	Meta         Meta                `json:"meta"`
}

// reverseDependenciesPage is one page as the registry sends it: edges and
// declaring versions in separate lists.
type reverseDependenciesPage struct {
	Dependencies []Dependency `json:"dependencies"`
	Versions     []Version    `json:"versions"`
	Meta         Meta         `json:"meta"`
}

// extend joins page into r and takes over the page's total.
//
// The join is an inner join on Version.ID == Dependency.VersionID: edges
// without a matching version are dropped, and an edge matching several
// versions (which the registry does not send) yields one pair per match.
func (r *ReverseDependencies) extend(page reverseDependenciesPage) {
	for _, d := range page.Dependencies {
		for _, v := range page.Versions {
			if v.ID == d.VersionID {
				r.Dependencies = append(r.Dependencies, ReverseDependency{
					CrateVersion: v,
					Dependency:   d,
				})
			}
		}
	}
	r.Meta.Total = page.Meta.Total
}
