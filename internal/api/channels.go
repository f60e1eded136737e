package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/huddlechat/huddle/internal/types"
)

// Channels lists the conversations visible to the local user.
func (c *Client) Channels(ctx context.Context) ([]types.Channel, error) {
	var channels []types.Channel
	if err := c.do(ctx, http.MethodGet, "/chat/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// Channel fetches one conversation's metadata, including the local user's
// last-read pointer.
func (c *Client) Channel(ctx context.Context, channelID int64) (types.Channel, error) {
	var channel types.Channel
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chat/channels/%d", channelID), nil, &channel)
	return channel, err
}

// Members lists a channel's members.
func (c *Client) Members(ctx context.Context, channelID int64) ([]types.User, error) {
	var members []types.User
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chat/channels/%d/members", channelID), nil, &members)
	return members, err
}

// Join adds the local user to a public channel.
func (c *Client) Join(ctx context.Context, channelID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/channels/%d/join", channelID), nil, nil)
}

// Leave removes the local user from a channel.
func (c *Client) Leave(ctx context.Context, channelID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/channels/%d/leave", channelID), nil, nil)
}

// CreateDirect opens (or returns the existing) direct thread with a user.
func (c *Client) CreateDirect(ctx context.Context, userID int64) (types.Channel, error) {
	var channel types.Channel
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/direct/%d", userID), nil, &channel)
	return channel, err
}

// TransferOwner hands channel ownership to another member.
func (c *Client) TransferOwner(ctx context.Context, channelID, newOwnerID int64) error {
	body := struct {
		NewOwnerID int64 `json:"new_owner_id"`
	}{NewOwnerID: newOwnerID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/channels/%d/transfer-owner", channelID), body, nil)
}

// Mute silences a channel's notifications until the given time; nil unmutes.
func (c *Client) Mute(ctx context.Context, channelID int64, until *time.Time) error {
	body := struct {
		MuteUntil *time.Time `json:"mute_until"`
	}{MuteUntil: until}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/channels/%d/mute", channelID), body, nil)
}

// Pin toggles a channel's pinned position in the list.
func (c *Client) Pin(ctx context.Context, channelID int64, pinned bool) error {
	body := struct {
		Pinned bool `json:"pinned"`
	}{Pinned: pinned}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/channels/%d/pin", channelID), body, nil)
}
