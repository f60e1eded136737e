package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/store"
)

// NewChannelsCmd creates the channels command.
func NewChannelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := loadClient(cmd)
			if err != nil {
				return err
			}

			channels, err := client.Channels(cmd.Context())
			if err != nil {
				return err
			}

			// Refresh the offline cache alongside the listing.
			if cachePath, err := core.CachePath(); err == nil {
				if cache, err := store.Open(cachePath); err == nil {
					_ = store.UpsertChannels(cache, channels, time.Now())
					cache.Close()
				}
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(channels)
			}

			for _, ch := range channels {
				marker := " "
				if ch.IsPinned {
					marker = "*"
				}
				unread := ""
				if ch.UnreadCount > 0 {
					unread = fmt.Sprintf(" (%d unread)", ch.UnreadCount)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-6d %s%s\n", marker, ch.ID, ch.Title(), unread)
			}
			return nil
		},
	}
	return cmd
}
