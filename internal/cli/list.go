package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesio/pkg/errors"
	"github.com/matzehuels/cratesio/pkg/integrations/crates"
)

// listOptions holds the flags of the list and browse commands.
type listOptions struct {
	sort     string
	search   string
	category string
	userID   uint64
	perPage  uint64
	page     uint64
}

func (o *listOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.sort, "sort", "recent-updates", "order: alpha, relevance, downloads, recent-downloads, recent-updates, new")
	f.StringVarP(&o.search, "search", "q", "", "search term")
	f.StringVar(&o.category, "category", "", "only crates in this category (slug)")
	f.Uint64Var(&o.userID, "user-id", 0, "only crates owned by this user ID")
	f.Uint64Var(&o.perPage, "per-page", crates.DefaultPerPage, "crates per page")
	f.Uint64Var(&o.page, "page", crates.DefaultPage, "first page")
}

func (o *listOptions) query() (crates.CratesQuery, error) {
	s, err := crates.ParseSort(o.sort)
	if err != nil {
		return crates.CratesQuery{}, err
	}
	return crates.NewCratesQueryBuilder().
		Sort(s).
		Search(o.search).
		Category(o.category).
		UserID(o.userID).
		PageSize(o.perPage).
		Page(o.page).
		Build(), nil
}

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var (
		opts  listOptions
		all   bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List and search crates",
		Long: `List crates, one page by default.

With --limit, crates are pulled lazily page by page until the limit is
reached. With --all, every page is fetched; for broad queries that is a
very large number of requests.`,
		Example: `  cratesio list --sort downloads --per-page 10
  cratesio list -q http --limit 200
  cratesio list --category cryptography --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && limit > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--all and --limit are mutually exclusive")
			}
			q, err := opts.query()
			if err != nil {
				return err
			}
			client, err := c.newClient()
			if err != nil {
				return err
			}

			var list []crates.Crate
			switch {
			case all:
				list, err = withSpinner(cmd.Context(), "Fetching all pages", func(ctx context.Context) ([]crates.Crate, error) {
					return client.AllCrates(ctx, q)
				})
			case limit > 0:
				list, err = withSpinner(cmd.Context(), fmt.Sprintf("Fetching %d crates", limit), func(ctx context.Context) ([]crates.Crate, error) {
					return takeCrates(ctx, client.CratesStream(q), limit)
				})
			default:
				var page *crates.CratesPage
				page, err = client.Crates(cmd.Context(), q)
				if page != nil {
					list = page.Crates
					loggerFromContext(cmd.Context()).Debug("listing", "total", page.Meta.Total)
				}
			}
			if err != nil {
				return err
			}

			return c.output(cmd, list, func(w io.Writer) {
				if len(list) == 0 {
					printInfo(w, "no crates match")
					return
				}
				renderCrates(w, list, time.Now())
			})
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")
	cmd.Flags().IntVar(&limit, "limit", 0, "fetch pages lazily until this many crates are listed")
	return cmd
}

// takeCrates pulls up to n crates from s.
func takeCrates(ctx context.Context, s *crates.CrateStream, n int) ([]crates.Crate, error) {
	out := make([]crates.Crate, 0, n)
	for k, err := range s.All(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, k)
		if len(out) == n {
			break
		}
	}
	return out, nil
}
