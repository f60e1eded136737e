package types

import "time"

// User identifies a message author or channel member.
type User struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Rank      *string `json:"rank,omitempty"`
	IsOnline  bool    `json:"is_online,omitempty"`
}

// DisplayName returns the full name when set, otherwise the username.
func (u User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}

// Reaction is one emoji reaction by one user. A message never holds two
// reactions with the same (user, emoji) pair.
type Reaction struct {
	Emoji     string  `json:"emoji"`
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ParentInfo is the inline preview of a replied-to message.
type ParentInfo struct {
	ID       int64   `json:"id"`
	Content  string  `json:"content"`
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
}

// Message is one channel message. Within a channel, messages are unique by
// ID and ordered by it: the server assigns IDs monotonically, so ID is the
// total order regardless of timestamp or arrival order.
type Message struct {
	ID            int64       `json:"id"`
	ChannelID     int64       `json:"channel_id"`
	UserID        int64       `json:"user_id"`
	Username      string      `json:"username"`
	FullName      *string     `json:"full_name,omitempty"`
	AvatarURL     *string     `json:"avatar_url,omitempty"`
	Content       string      `json:"content"`
	DocumentID    *int64      `json:"document_id,omitempty"`
	DocumentTitle *string     `json:"document_title,omitempty"`
	ParentID      *int64      `json:"parent_id,omitempty"`
	Parent        *ParentInfo `json:"parent,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty"`
	Reactions     []Reaction  `json:"reactions,omitempty"`
	ReplyCount    int         `json:"reply_count"`
	Mentions      []int64     `json:"mentions,omitempty"`
}

// Edited reports whether the message has been edited after creation.
func (m Message) Edited() bool {
	return m.UpdatedAt != nil
}

// HasReaction reports whether user already reacted with emoji.
func (m Message) HasReaction(userID int64, emoji string) bool {
	for _, r := range m.Reactions {
		if r.UserID == userID && r.Emoji == emoji {
			return true
		}
	}
	return false
}

// LastMessage is the channel-list preview of the newest message.
type LastMessage struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	SenderName string    `json:"sender_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Channel is a conversation: a named channel or a direct thread.
type Channel struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	Description       *string      `json:"description,omitempty"`
	IsDirect          bool         `json:"is_direct"`
	DisplayName       *string      `json:"display_name,omitempty"`
	CreatedBy         int64        `json:"created_by"`
	MembersCount      int          `json:"members_count"`
	OnlineCount       int          `json:"online_count"`
	UnreadCount       int          `json:"unread_count"`
	LastReadMessageID *int64       `json:"last_read_message_id,omitempty"`
	OthersReadID      *int64       `json:"others_read_id,omitempty"`
	IsPinned          bool         `json:"is_pinned"`
	MuteUntil         *time.Time   `json:"mute_until,omitempty"`
	LastMessage       *LastMessage `json:"last_message,omitempty"`
	IsMember          bool         `json:"is_member"`
	IsOwner           bool         `json:"is_owner"`
}

// Title returns the name shown in lists: the counterpart for direct
// threads, the channel name otherwise.
func (c Channel) Title() string {
	if c.DisplayName != nil && *c.DisplayName != "" {
		return *c.DisplayName
	}
	return c.Name
}

// InvitationStatus is the lifecycle state of a channel invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is a channel invitation addressed to the local user.
type Invitation struct {
	ID          int64            `json:"id"`
	ChannelID   int64            `json:"channel_id"`
	ChannelName string           `json:"channel_name"`
	InvitedBy   int64            `json:"invited_by"`
	Status      InvitationStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}
