package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesio/pkg/integrations/crates"
)

// rdepsCommand creates the rdeps command.
func (c *CLI) rdepsCommand() *cobra.Command {
	var (
		page  uint64
		count bool
	)

	cmd := &cobra.Command{
		Use:   "rdeps <name>",
		Short: "List crate versions depending on a crate",
		Long: `List the crate versions that depend on a crate.

All pages are fetched unless --page selects a single page of up to 100
entries. --count prints only the number of reverse dependencies, which
needs a single request.`,
		Args: crateArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			name := args[0]

			if count {
				n, err := client.ReverseDependencyCount(cmd.Context(), name)
				if err != nil {
					return err
				}
				return c.output(cmd, map[string]uint64{"total": n}, func(w io.Writer) {
					fmt.Fprintln(w, n)
				})
			}

			rdeps, err := withSpinner(cmd.Context(), "Fetching reverse dependencies of "+name,
				func(ctx context.Context) (*crates.ReverseDependencies, error) {
					if page > 0 {
						return client.ReverseDependenciesPage(ctx, name, page)
					}
					return client.ReverseDependencies(ctx, name)
				})
			if err != nil {
				return err
			}
			return c.output(cmd, rdeps, func(w io.Writer) {
				if len(rdeps.Dependencies) == 0 {
					printInfo(w, "%s has no reverse dependencies", name)
					return
				}
				renderReverseDependencies(w, rdeps)
			})
		},
	}

	cmd.Flags().Uint64Var(&page, "page", 0, "fetch only this page (1-based)")
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of reverse dependencies")
	return cmd
}
