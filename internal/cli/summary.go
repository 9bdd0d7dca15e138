package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// summaryCommand creates the summary command.
func (c *CLI) summaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show registry-wide statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			s, err := client.Summary(cmd.Context())
			if err != nil {
				return err
			}

			return c.output(cmd, s, func(w io.Writer) {
				now := time.Now()
				printKeyValue(w, "Crates", StyleNumber.Render(strconv.FormatUint(s.NumCrates, 10)))
				printKeyValue(w, "Downloads", StyleNumber.Render(strconv.FormatUint(s.NumDownloads, 10)))
				printSection(w, "Most downloaded")
				renderCrates(w, s.MostDownloaded, now)
				printSection(w, "Most recently downloaded")
				renderCrates(w, s.MostRecentlyDownloaded, now)
				printSection(w, "Just updated")
				renderCrates(w, s.JustUpdated, now)
				printSection(w, "New crates")
				renderCrates(w, s.NewCrates, now)
				printSection(w, "Popular categories")
				renderCategories(w, s.PopularCategories)
				printSection(w, "Popular keywords")
				renderKeywords(w, s.PopularKeywords)
			})
		},
	}
}

func printSection(w io.Writer, title string) {
	fmt.Fprintln(w)
	printTitle(w, title, "")
}
