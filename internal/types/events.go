package types

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates live-channel events.
type EventType string

const (
	EventNewMessage       EventType = "new_message"
	EventMessageUpdated   EventType = "message_updated"
	EventMessageDeleted   EventType = "message_deleted"
	EventReactionAdded    EventType = "reaction_added"
	EventReactionRemoved  EventType = "reaction_removed"
	EventTyping           EventType = "typing"
	EventReadReceipt      EventType = "read_receipt"
	EventPresence         EventType = "presence"
	EventUserPresence     EventType = "user_presence"
	EventMemberJoined     EventType = "member_joined"
	EventMemberLeft       EventType = "member_left"
	EventOwnerTransferred EventType = "owner_transferred"
	EventInvitationStatus EventType = "invitation_status_changed"
	EventChannelCreated   EventType = "channel_created"
	EventChannelDeleted   EventType = "channel_deleted"
	EventError            EventType = "error"
	EventPing             EventType = "ping"
)

// Event is one decoded live-channel push. The union is closed: every type
// the server emits has a struct here, and dispatch switches over all of them.
type Event interface {
	Kind() EventType
}

// ChannelScoped is implemented by events whose routing identity is a
// channel id. Dispatch compares it against the active conversation and
// drops mismatches.
type ChannelScoped interface {
	EventChannel() int64
}

// NewMessageEvent carries a freshly posted message, flattened on the wire.
// Events with no type field decode as new_message for backward compatibility.
type NewMessageEvent struct {
	ID           int64       `json:"id"`
	ChannelID    int64       `json:"channel_id"`
	UserID       int64       `json:"user_id"`
	Username     string      `json:"username"`
	FullName     *string     `json:"full_name,omitempty"`
	AvatarURL    *string     `json:"avatar_url,omitempty"`
	Content      string      `json:"content"`
	DocumentID   *int64      `json:"document_id,omitempty"`
	ParentID     *int64      `json:"parent_id,omitempty"`
	Parent       *ParentInfo `json:"parent,omitempty"`
	CreatedAt    RFC3339Time `json:"created_at"`
	Mentions     []int64     `json:"mentions,omitempty"`
	ReplyCount   int         `json:"reply_count"`
	InvitationID *int64      `json:"invitation_id,omitempty"`
}

func (e NewMessageEvent) Kind() EventType     { return EventNewMessage }
func (e NewMessageEvent) EventChannel() int64 { return e.ChannelID }

// Message converts the flattened wire form into the domain message.
func (e NewMessageEvent) Message() Message {
	return Message{
		ID:         e.ID,
		ChannelID:  e.ChannelID,
		UserID:     e.UserID,
		Username:   e.Username,
		FullName:   e.FullName,
		AvatarURL:  e.AvatarURL,
		Content:    e.Content,
		DocumentID: e.DocumentID,
		ParentID:   e.ParentID,
		Parent:     e.Parent,
		CreatedAt:  e.CreatedAt.Time,
		ReplyCount: e.ReplyCount,
		Mentions:   e.Mentions,
	}
}

// MessageUpdatedEvent carries an edited message body.
type MessageUpdatedEvent struct {
	ID        int64        `json:"id"`
	ChannelID int64        `json:"channel_id"`
	Content   string       `json:"content"`
	UpdatedAt *RFC3339Time `json:"updated_at,omitempty"`
}

func (e MessageUpdatedEvent) Kind() EventType     { return EventMessageUpdated }
func (e MessageUpdatedEvent) EventChannel() int64 { return e.ChannelID }

// MessageDeletedEvent removes a message.
type MessageDeletedEvent struct {
	MessageID int64 `json:"message_id"`
	ChannelID int64 `json:"channel_id"`
}

func (e MessageDeletedEvent) Kind() EventType     { return EventMessageDeleted }
func (e MessageDeletedEvent) EventChannel() int64 { return e.ChannelID }

// ReactionAddedEvent attaches a reaction to a message. The wire form has no
// channel id; the target message id scopes it instead.
type ReactionAddedEvent struct {
	MessageID int64    `json:"message_id"`
	Reaction  Reaction `json:"reaction"`
}

func (e ReactionAddedEvent) Kind() EventType { return EventReactionAdded }

// ReactionRemovedEvent detaches a reaction from a message.
type ReactionRemovedEvent struct {
	MessageID int64  `json:"message_id"`
	Emoji     string `json:"emoji"`
	UserID    int64  `json:"user_id"`
}

func (e ReactionRemovedEvent) Kind() EventType { return EventReactionRemoved }

// TypingEvent signals a remote user started or stopped typing.
type TypingEvent struct {
	ChannelID int64   `json:"channel_id"`
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	FullName  *string `json:"full_name,omitempty"`
	IsTyping  bool    `json:"is_typing"`
}

func (e TypingEvent) Kind() EventType     { return EventTyping }
func (e TypingEvent) EventChannel() int64 { return e.ChannelID }

// ReadReceiptEvent raises a member's last-read pointer.
type ReadReceiptEvent struct {
	ChannelID  int64 `json:"channel_id"`
	UserID     int64 `json:"user_id"`
	LastReadID int64 `json:"last_read_id"`
}

func (e ReadReceiptEvent) Kind() EventType     { return EventReadReceipt }
func (e ReadReceiptEvent) EventChannel() int64 { return e.ChannelID }

// PresenceEvent carries the aggregate online count for a channel.
type PresenceEvent struct {
	ChannelID   int64 `json:"channel_id"`
	OnlineCount int   `json:"online_count"`
}

func (e PresenceEvent) Kind() EventType     { return EventPresence }
func (e PresenceEvent) EventChannel() int64 { return e.ChannelID }

// UserPresenceEvent carries one user's online/offline transition. It is
// global: direct-thread headers everywhere show the counterpart's dot.
type UserPresenceEvent struct {
	UserID   int64        `json:"user_id"`
	IsOnline bool         `json:"is_online"`
	LastSeen *RFC3339Time `json:"last_seen,omitempty"`
}

func (e UserPresenceEvent) Kind() EventType { return EventUserPresence }

// MemberJoinedEvent announces a new channel member.
type MemberJoinedEvent struct {
	ChannelID      int64 `json:"channel_id"`
	User           User  `json:"user"`
	ChannelOwnerID int64 `json:"channel_owner_id"`
}

func (e MemberJoinedEvent) Kind() EventType     { return EventMemberJoined }
func (e MemberJoinedEvent) EventChannel() int64 { return e.ChannelID }

// MemberLeftEvent announces a departed channel member.
type MemberLeftEvent struct {
	ChannelID      int64 `json:"channel_id"`
	UserID         int64 `json:"user_id"`
	ChannelOwnerID int64 `json:"channel_owner_id"`
}

func (e MemberLeftEvent) Kind() EventType     { return EventMemberLeft }
func (e MemberLeftEvent) EventChannel() int64 { return e.ChannelID }

// OwnerTransferredEvent announces a change of channel ownership.
type OwnerTransferredEvent struct {
	ChannelID        int64  `json:"channel_id"`
	OldOwnerID       int64  `json:"old_owner_id"`
	NewOwnerID       int64  `json:"new_owner_id"`
	OldOwnerUsername string `json:"old_owner_username"`
	NewOwnerUsername string `json:"new_owner_username"`
}

func (e OwnerTransferredEvent) Kind() EventType     { return EventOwnerTransferred }
func (e OwnerTransferredEvent) EventChannel() int64 { return e.ChannelID }

// InvitationStatusEvent announces an invitation being answered. It is
// broadcast to every connected client, so it carries a channel id as
// payload, not as routing identity.
type InvitationStatusEvent struct {
	InvitationID int64            `json:"invitation_id"`
	Status       InvitationStatus `json:"status"`
	UserID       int64            `json:"user_id"`
	ChannelID    int64            `json:"channel_id"`
}

func (e InvitationStatusEvent) Kind() EventType { return EventInvitationStatus }

// ChannelCreatedEvent announces a channel the local user was added to.
type ChannelCreatedEvent struct {
	Channel Channel `json:"channel"`
}

func (e ChannelCreatedEvent) Kind() EventType { return EventChannelCreated }

// ChannelDeletedEvent announces a channel deletion.
type ChannelDeletedEvent struct {
	ChannelID   int64  `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	IsDirect    bool   `json:"is_direct"`
	DeletedBy   *User  `json:"deleted_by,omitempty"`
}

func (e ChannelDeletedEvent) Kind() EventType { return EventChannelDeleted }

// ErrorEvent is a transport-level error surfaced to the user. When
// ActionRequired is "join_channel" the client additionally prompts to join.
type ErrorEvent struct {
	Message        string `json:"message"`
	ActionRequired string `json:"action_required,omitempty"`
	ChannelID      int64  `json:"channel_id,omitempty"`
}

func (e ErrorEvent) Kind() EventType { return EventError }

// PingEvent is the server keepalive. Clients ignore it.
type PingEvent struct{}

func (e PingEvent) Kind() EventType { return EventPing }

type eventEnvelope struct {
	Type EventType `json:"type"`
}

// DecodeEvent parses one live-channel frame into its typed event. Frames
// without a type field are treated as new_message, matching older servers.
func DecodeEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	var ev Event
	switch env.Type {
	case EventNewMessage, "":
		ev = &NewMessageEvent{}
	case EventMessageUpdated:
		ev = &MessageUpdatedEvent{}
	case EventMessageDeleted:
		ev = &MessageDeletedEvent{}
	case EventReactionAdded:
		ev = &ReactionAddedEvent{}
	case EventReactionRemoved:
		ev = &ReactionRemovedEvent{}
	case EventTyping:
		ev = &TypingEvent{}
	case EventReadReceipt:
		ev = &ReadReceiptEvent{}
	case EventPresence:
		ev = &PresenceEvent{}
	case EventUserPresence:
		ev = &UserPresenceEvent{}
	case EventMemberJoined:
		ev = &MemberJoinedEvent{}
	case EventMemberLeft:
		ev = &MemberLeftEvent{}
	case EventOwnerTransferred:
		ev = &OwnerTransferredEvent{}
	case EventInvitationStatus:
		ev = &InvitationStatusEvent{}
	case EventChannelCreated:
		ev = &ChannelCreatedEvent{}
	case EventChannelDeleted:
		ev = &ChannelDeletedEvent{}
	case EventError:
		ev = &ErrorEvent{}
	case EventPing:
		return PingEvent{}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", env.Type, err)
	}
	return reflectValue(ev), nil
}

// reflectValue dereferences the decoded pointer so callers type-switch on
// value types.
func reflectValue(ev Event) Event {
	switch e := ev.(type) {
	case *NewMessageEvent:
		return *e
	case *MessageUpdatedEvent:
		return *e
	case *MessageDeletedEvent:
		return *e
	case *ReactionAddedEvent:
		return *e
	case *ReactionRemovedEvent:
		return *e
	case *TypingEvent:
		return *e
	case *ReadReceiptEvent:
		return *e
	case *PresenceEvent:
		return *e
	case *UserPresenceEvent:
		return *e
	case *MemberJoinedEvent:
		return *e
	case *MemberLeftEvent:
		return *e
	case *OwnerTransferredEvent:
		return *e
	case *InvitationStatusEvent:
		return *e
	case *ChannelCreatedEvent:
		return *e
	case *ChannelDeletedEvent:
		return *e
	case *ErrorEvent:
		return *e
	default:
		return ev
	}
}
