package command

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search messages across your conversations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := loadClient(cmd)
			if err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			matches, err := client.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(matches)
			}
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			for _, msg := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d [channel %d] %s: %s\n",
					msg.ID, msg.ChannelID, msg.Username, msg.Content)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "maximum results")
	return cmd
}
