package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// userCommand creates the user command.
func (c *CLI) userCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "user <login>",
		Short: "Show a registry user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			u, err := client.User(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return c.output(cmd, u, func(w io.Writer) {
				printTitle(w, u.Login, u.Name)
				printKeyValue(w, "ID", strconv.FormatUint(u.ID, 10))
				printKeyValue(w, "Kind", u.Kind)
				printKeyValue(w, "Profile", link(u.URL))
				printKeyValue(w, "Avatar", link(u.Avatar))
			})
		},
	}
}
