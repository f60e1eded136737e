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

// NewDMCmd creates the dm command.
func NewDMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dm <user-id>",
		Short: "Open (or start) a direct thread with a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad user id %q", args[0])
			}

			client, config, err := loadClient(cmd)
			if err != nil {
				return err
			}

			channel, err := client.CreateDirect(cmd.Context(), userID)
			if err != nil {
				return err
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
