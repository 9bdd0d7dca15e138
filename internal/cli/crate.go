package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesio/pkg/errors"
	"github.com/matzehuels/cratesio/pkg/integrations/crates"
)

// output prints v as JSON with --json and calls render otherwise.
func (c *CLI) output(cmd *cobra.Command, v any, render func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if c.flags.json {
		return printJSON(w, v)
	}
	render(w)
	return nil
}

// crateArgs validates a crate name argument, optionally followed by a version.
func crateArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return err
		}
		return errors.ValidateCrateName(args[0])
	}
}

// crateCommand creates the crate command.
func (c *CLI) crateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "crate <name>",
		Short: "Show a crate with its versions",
		Args:  crateArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			resp, err := withSpinner(cmd.Context(), "Fetching "+args[0], func(ctx context.Context) (*crates.CrateResponse, error) {
				return client.Crate(ctx, args[0])
			})
			if err != nil {
				return err
			}

			return c.output(cmd, resp, func(w io.Writer) {
				printCrate(w, &resp.Crate, resp.Categories, resp.Keywords)
				fmt.Fprintln(w)
				renderVersions(w, resp.Versions, time.Now())
			})
		},
	}
}

// fullCommand creates the full command.
func (c *CLI) fullCommand() *cobra.Command {
	var allVersions bool

	cmd := &cobra.Command{
		Use:   "full <name>",
		Short: "Show everything known about a crate",
		Long: `Fetch a crate together with its downloads, owners, reverse dependencies
and the authors and dependencies of its newest version (or of every version
with --all-versions).

This issues many requests; with the default rate limit it takes a few
seconds, more for crates with many reverse dependencies.`,
		Args: crateArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			client, err := c.newClient()
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			full, err := withSpinner(cmd.Context(), "Fetching "+args[0], func(ctx context.Context) (*crates.FullCrate, error) {
				return client.FullCrate(ctx, args[0], allVersions)
			})
			if err != nil {
				return err
			}
			prog.done("Fetched " + full.Name)

			return c.output(cmd, full, func(w io.Writer) { printFullCrate(w, full) })
		},
	}

	cmd.Flags().BoolVar(&allVersions, "all-versions", false, "resolve authors and dependencies of every version")
	return cmd
}

// downloadsCommand creates the downloads command.
func (c *CLI) downloadsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "downloads <name>",
		Short: "Show daily downloads of a crate",
		Args:  crateArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			d, err := client.CrateDownloads(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.output(cmd, d, func(w io.Writer) { renderDownloads(w, d) })
		},
	}
}

// ownersCommand creates the owners command.
func (c *CLI) ownersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "owners <name>",
		Short: "List the owners of a crate",
		Args:  crateArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			owners, err := client.CrateOwners(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.output(cmd, owners, func(w io.Writer) { renderUsers(w, owners) })
		},
	}
}

// authorsCommand creates the authors command.
func (c *CLI) authorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "authors <name> <version>",
		Short: "List the authors of a crate version",
		Args:  crateArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			authors, err := client.CrateAuthors(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.output(cmd, authors, func(w io.Writer) {
				for _, name := range authors.Names {
					fmt.Fprintln(w, name)
				}
			})
		},
	}
}

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <name> <version>",
		Short: "List the dependencies of a crate version",
		Args:  crateArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			deps, err := client.CrateDependencies(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.output(cmd, deps, func(w io.Writer) { renderDependencies(w, deps) })
		},
	}
}

// =============================================================================
// Crate Display
// =============================================================================

func printCrate(w io.Writer, k *crates.Crate, cats []crates.Category, kws []crates.Keyword) {
	printTitle(w, k.Name, k.MaxVersion)
	if k.Description != "" {
		fmt.Fprintln(w, StyleDim.Render(strings.TrimSpace(k.Description)))
	}
	fmt.Fprintln(w)
	printKeyValue(w, "Downloads", StyleNumber.Render(strconv.FormatUint(k.Downloads, 10)))
	printKeyValue(w, "Stable", k.MaxStableVersion)
	printKeyValue(w, "Repository", link(k.Repository))
	printKeyValue(w, "Homepage", link(k.Homepage))
	printKeyValue(w, "Docs", link(k.Documentation))
	printKeyValue(w, "Created", k.CreatedAt.Format(time.DateOnly))
	printKeyValue(w, "Updated", k.UpdatedAt.Format(time.DateOnly))

	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Category)
	}
	printKeyValue(w, "Categories", strings.Join(names, ", "))

	names = names[:0]
	for _, kw := range kws {
		names = append(names, kw.Keyword)
	}
	printKeyValue(w, "Keywords", strings.Join(names, ", "))
}

func printFullCrate(w io.Writer, full *crates.FullCrate) {
	k := crates.Crate{
		Name:             full.Name,
		Description:      full.Description,
		Documentation:    full.Documentation,
		Homepage:         full.Homepage,
		Repository:       full.Repository,
		Downloads:        full.TotalDownloads,
		MaxVersion:       full.MaxVersion,
		MaxStableVersion: full.MaxStableVersion,
		CreatedAt:        full.CreatedAt,
		UpdatedAt:        full.UpdatedAt,
	}
	printCrate(w, &k, full.Categories, full.Keywords)
	printKeyValue(w, "License", full.License)

	logins := make([]string, 0, len(full.Owners))
	for _, o := range full.Owners {
		logins = append(logins, o.Login)
	}
	printKeyValue(w, "Owners", strings.Join(logins, ", "))
	printKeyValue(w, "Dependents", strconv.FormatUint(full.ReverseDependencies.Meta.Total, 10))

	for _, v := range full.Versions {
		fmt.Fprintln(w)
		printTitle(w, v.Num, strings.Join(v.AuthorNames, ", "))
		renderDependencies(w, v.Dependencies)
	}
}
