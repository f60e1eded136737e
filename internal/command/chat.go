package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/huddlechat/huddle/internal/chat"
	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/store"
	"github.com/huddlechat/huddle/internal/types"
)

// NewChatCmd creates the chat command.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <channel-id>",
		Short: "Open a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad channel id %q", args[0])
			}

			client, config, err := loadClient(cmd)
			if err != nil {
				return err
			}

			channel, err := client.Channel(cmd.Context(), channelID)
			if err != nil {
				return err
			}
			if !channel.IsMember {
				return fmt.Errorf("not a member of %s. Join it first", channel.Title())
			}

			opts := chat.Options{
				API:       client,
				ServerURL: config.ServerURL,
				Token:     config.Token,
				Self:      types.User{ID: config.UserID, Username: config.Username},
				Channel:   channel,
			}

			if cachePath, err := core.CachePath(); err == nil {
				if cache, err := store.Open(cachePath); err == nil {
					defer cache.Close()
					opts.Cache = cache
				}
			}

			return chat.Run(opts)
		},
	}
	return cmd
}
