package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/store"
)

// NewReadCmd creates the read command.
func NewReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <channel-id>",
		Short: "Mark a conversation read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad channel id %q", args[0])
			}

			client, _, err := loadClient(cmd)
			if err != nil {
				return err
			}

			lastRead, err := client.MarkRead(cmd.Context(), channelID)
			if err != nil {
				return err
			}

			if cachePath, err := core.CachePath(); err == nil {
				if cache, err := store.Open(cachePath); err == nil {
					_ = store.SetLastRead(cache, channelID, lastRead)
					cache.Close()
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "read up to #%d\n", lastRead)
			return nil
		},
	}
	return cmd
}
