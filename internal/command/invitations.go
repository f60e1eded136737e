package command

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewInvitationsCmd creates the invitations command group.
func NewInvitationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invitations",
		Short: "List and answer channel invitations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := loadClient(cmd)
			if err != nil {
				return err
			}

			invitations, err := client.PendingInvitations(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(invitations)
			}
			if len(invitations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending invitations")
				return nil
			}
			for _, inv := range invitations {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6d %s\n", inv.ID, inv.ChannelName)
			}
			return nil
		},
	}

	cmd.AddCommand(newInvitationAnswerCmd("accept"), newInvitationAnswerCmd("decline"))
	return cmd
}

func newInvitationAnswerCmd(verb string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb + " <invitation-id>",
		Short: verb + " an invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invitationID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad invitation id %q", args[0])
			}

			client, _, err := loadClient(cmd)
			if err != nil {
				return err
			}

			if verb == "accept" {
				channel, err := client.AcceptInvitation(cmd.Context(), invitationID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "joined %s (#%d)\n", channel.Title(), channel.ID)
				return nil
			}

			reason, _ := cmd.Flags().GetString("reason")
			if err := client.DeclineInvitation(cmd.Context(), invitationID, reason); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "declined")
			return nil
		},
	}
	if verb == "decline" {
		cmd.Flags().String("reason", "", "optional reason")
	}
	return cmd
}
