package command

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/huddlechat/huddle/internal/live"
	"github.com/huddlechat/huddle/internal/types"
)

// NewPostCmd creates the post command.
func NewPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <channel-id> <message>",
		Short: "Post a message without opening the UI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad channel id %q", args[0])
			}
			content := args[1]

			_, config, err := loadClient(cmd)
			if err != nil {
				return err
			}

			var parentID *int64
			if replyTo, _ := cmd.Flags().GetInt64("reply-to"); replyTo != 0 {
				parentID = &replyTo
			}

			// Messages go out over the live channel; the broadcast echo is
			// the delivery confirmation.
			client, err := live.Dial(config.ServerURL, channelID, config.Token)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.SendMessage(content, parentID, nil); err != nil {
				return err
			}

			deadline := time.After(5 * time.Second)
			for {
				select {
				case event, ok := <-client.Events():
					if !ok {
						if err := client.Err(); err != nil {
							return err
						}
						return fmt.Errorf("connection closed before delivery")
					}
					if nm, isMsg := event.(types.NewMessageEvent); isMsg &&
						nm.UserID == config.UserID && nm.Content == content {
						fmt.Fprintf(cmd.OutOrStdout(), "posted #%d\n", nm.ID)
						return nil
					}
					if errEvent, isErr := event.(types.ErrorEvent); isErr {
						return fmt.Errorf("%s", errEvent.Message)
					}
				case <-deadline:
					return fmt.Errorf("timed out waiting for delivery")
				}
			}
		},
	}
	cmd.Flags().Int64("reply-to", 0, "reply to a message id")
	return cmd
}
