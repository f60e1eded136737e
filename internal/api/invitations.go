package api

import (
	"context"
	"net/http"

	"github.com/huddlechat/huddle/internal/types"
)

// CreateInvitation invites a user to a channel.
func (c *Client) CreateInvitation(ctx context.Context, channelID, userID int64) (types.Invitation, error) {
	body := struct {
		ChannelID int64 `json:"channel_id"`
		UserID    int64 `json:"user_id"`
	}{ChannelID: channelID, UserID: userID}
	var inv types.Invitation
	err := c.do(ctx, http.MethodPost, "/chat/invitations", body, &inv)
	return inv, err
}

// AcceptInvitation accepts and returns the joined channel.
func (c *Client) AcceptInvitation(ctx context.Context, invitationID int64) (types.Channel, error) {
	body := struct {
		InvitationID int64 `json:"invitation_id"`
	}{InvitationID: invitationID}
	var channel types.Channel
	err := c.do(ctx, http.MethodPost, "/chat/invitations/accept", body, &channel)
	return channel, err
}

// DeclineInvitation declines with an optional reason.
func (c *Client) DeclineInvitation(ctx context.Context, invitationID int64, reason string) error {
	body := struct {
		InvitationID int64  `json:"invitation_id"`
		Reason       string `json:"reason,omitempty"`
	}{InvitationID: invitationID, Reason: reason}
	return c.do(ctx, http.MethodPost, "/chat/invitations/decline", body, nil)
}

// PendingInvitations lists invitations awaiting the local user's answer.
func (c *Client) PendingInvitations(ctx context.Context) ([]types.Invitation, error) {
	var resp struct {
		Invitations []types.Invitation `json:"invitations"`
	}
	err := c.do(ctx, http.MethodGet, "/chat/invitations/pending", nil, &resp)
	return resp.Invitations, err
}
