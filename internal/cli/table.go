package cli

import (
	"io"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/matzehuels/cratesio/pkg/integrations/crates"
)

// newTable creates a table writer with the CLI's style. Columns listed in
// numeric are right-aligned.
func newTable(w io.Writer, header table.Row, numeric ...int) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(numeric))
	for _, n := range numeric {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	return t
}

func renderCrates(w io.Writer, list []crates.Crate, now time.Time) {
	t := newTable(w, table.Row{"Name", "Version", "Downloads", "Recent", "Updated", "Description"}, 3, 4)
	for _, k := range list {
		t.AppendRow(table.Row{
			k.Name,
			k.MaxVersion,
			formatCount(k.Downloads),
			formatCount(k.RecentDownloads),
			formatRelativeTime(k.UpdatedAt, now),
			text.Trim(k.Description, 60),
		})
	}
	t.Render()
}

func renderVersions(w io.Writer, versions []crates.Version, now time.Time) {
	t := newTable(w, table.Row{"Version", "Published", "Downloads", "License", "Yanked"}, 3)
	for _, v := range versions {
		yanked := ""
		if v.Yanked {
			yanked = StyleWarning.Render("yanked")
		}
		t.AppendRow(table.Row{v.Num, formatRelativeTime(v.CreatedAt, now), formatCount(v.Downloads), v.License, yanked})
	}
	t.Render()
}

func renderDependencies(w io.Writer, deps []crates.Dependency) {
	t := newTable(w, table.Row{"Crate", "Requirement", "Kind", "Optional", "Target"})
	for _, d := range deps {
		optional := ""
		if d.Optional {
			optional = "yes"
		}
		t.AppendRow(table.Row{d.CrateID, d.Req, d.Kind, optional, d.Target})
	}
	t.Render()
}

func renderReverseDependencies(w io.Writer, rdeps *crates.ReverseDependencies) {
	t := newTable(w, table.Row{"Dependent", "Version", "Requirement", "Kind", "Downloads"}, 5)
	for _, d := range rdeps.Dependencies {
		t.AppendRow(table.Row{
			d.CrateVersion.Crate,
			d.CrateVersion.Num,
			d.Dependency.Req,
			d.Dependency.Kind,
			formatCount(d.CrateVersion.Downloads),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", rdeps.Meta.Total})
	t.Render()
}

func renderUsers(w io.Writer, users []crates.User) {
	t := newTable(w, table.Row{"Login", "Name", "Kind", "URL"})
	for _, u := range users {
		t.AppendRow(table.Row{u.Login, u.Name, u.Kind, u.URL})
	}
	t.Render()
}

// renderDownloads sums downloads per day across versions, newest first.
func renderDownloads(w io.Writer, d *crates.CrateDownloads) {
	perDay := map[time.Time]uint64{}
	for _, vd := range d.VersionDownloads {
		perDay[vd.Date.Time] += vd.Downloads
	}
	for _, ed := range d.Meta.ExtraDownloads {
		perDay[ed.Date.Time] += ed.Downloads
	}

	days := make([]time.Time, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })

	t := newTable(w, table.Row{"Date", "Downloads"}, 2)
	var total uint64
	for _, day := range days {
		t.AppendRow(table.Row{day.Format(time.DateOnly), perDay[day]})
		total += perDay[day]
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}

func renderCategories(w io.Writer, cats []crates.Category) {
	t := newTable(w, table.Row{"Category", "Crates"}, 2)
	for _, c := range cats {
		t.AppendRow(table.Row{c.Category, c.CratesCount})
	}
	t.Render()
}

func renderKeywords(w io.Writer, kws []crates.Keyword) {
	t := newTable(w, table.Row{"Keyword", "Crates"}, 2)
	for _, k := range kws {
		t.AppendRow(table.Row{k.Keyword, k.CratesCount})
	}
	t.Render()
}
