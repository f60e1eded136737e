package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/huddlechat/huddle/internal/types"
)

// Messages fetches one history page for a channel, ordered oldest to
// newest. A page shorter than limit signals exhaustion.
func (c *Client) Messages(ctx context.Context, channelID int64, limit, offset int) ([]types.Message, error) {
	path := fmt.Sprintf("/chat/channels/%d/messages?limit=%d&offset=%d", channelID, limit, offset)
	var messages []types.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// EditMessage replaces a message's content and returns the authoritative
// updated message.
func (c *Client) EditMessage(ctx context.Context, messageID int64, content string) (types.Message, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	var updated types.Message
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/chat/messages/%d", messageID), body, &updated)
	return updated, err
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, messageID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/chat/messages/%d", messageID), nil, nil)
}

// AddReaction attaches an emoji reaction by the local user.
func (c *Client) AddReaction(ctx context.Context, messageID int64, emoji string) error {
	path := fmt.Sprintf("/chat/messages/%d/reactions?emoji=%s", messageID, url.QueryEscape(emoji))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// RemoveReaction detaches the local user's emoji reaction.
func (c *Client) RemoveReaction(ctx context.Context, messageID int64, emoji string) error {
	path := fmt.Sprintf("/chat/messages/%d/reactions?emoji=%s", messageID, url.QueryEscape(emoji))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Replies fetches the replies to one message, oldest first.
func (c *Client) Replies(ctx context.Context, messageID int64) ([]types.Message, error) {
	var replies []types.Message
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chat/messages/%d/replies", messageID), nil, &replies)
	return replies, err
}

// Search finds messages matching query across the user's channels.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]types.Message, error) {
	path := fmt.Sprintf("/chat/search?q=%s&limit=%d", url.QueryEscape(query), limit)
	var matches []types.Message
	err := c.do(ctx, http.MethodGet, path, nil, &matches)
	return matches, err
}

// MarkRead marks the whole channel read and returns the new last-read id.
func (c *Client) MarkRead(ctx context.Context, channelID int64) (int64, error) {
	var resp struct {
		Status            string `json:"status"`
		LastReadMessageID int64  `json:"last_read_message_id"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/channels/%d/read", channelID), nil, &resp)
	return resp.LastReadMessageID, err
}
