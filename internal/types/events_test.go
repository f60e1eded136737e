package types

import (
	"testing"
)

func TestDecodeNewMessageEvent(t *testing.T) {
	data := []byte(`{
		"type": "new_message",
		"id": 121,
		"channel_id": 42,
		"user_id": 7,
		"username": "vera",
		"content": "hello",
		"parent_id": 100,
		"created_at": "2024-03-01T10:00:00Z",
		"reply_count": 0
	}`)

	ev, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	msg, ok := ev.(NewMessageEvent)
	if !ok {
		t.Fatalf("expected NewMessageEvent, got %T", ev)
	}
	if msg.ID != 121 || msg.ChannelID != 42 || msg.Content != "hello" {
		t.Errorf("unexpected fields: %+v", msg)
	}
	if msg.ParentID == nil || *msg.ParentID != 100 {
		t.Errorf("expected parent_id 100, got %v", msg.ParentID)
	}
	if msg.EventChannel() != 42 {
		t.Errorf("EventChannel = %d, want 42", msg.EventChannel())
	}
}

func TestDecodeUntypedFrameDefaultsToNewMessage(t *testing.T) {
	data := []byte(`{"id": 5, "channel_id": 3, "user_id": 1, "username": "old", "content": "legacy", "created_at": "2023-01-01T00:00:00Z"}`)

	ev, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if _, ok := ev.(NewMessageEvent); !ok {
		t.Fatalf("untyped frame should decode as NewMessageEvent, got %T", ev)
	}
}

func TestDecodeTypedEvents(t *testing.T) {
	tests := []struct {
		name string
		data string
		want EventType
	}{
		{"typing", `{"type":"typing","channel_id":4,"user_id":2,"username":"ann","is_typing":true}`, EventTyping},
		{"read_receipt", `{"type":"read_receipt","channel_id":4,"user_id":2,"last_read_id":99}`, EventReadReceipt},
		{"reaction_added", `{"type":"reaction_added","message_id":10,"reaction":{"emoji":"👍","user_id":2,"username":"ann"}}`, EventReactionAdded},
		{"reaction_removed", `{"type":"reaction_removed","message_id":10,"emoji":"👍","user_id":2}`, EventReactionRemoved},
		{"message_deleted", `{"type":"message_deleted","message_id":10,"channel_id":4}`, EventMessageDeleted},
		{"message_updated", `{"type":"message_updated","id":10,"channel_id":4,"content":"fixed","updated_at":"2024-03-01T10:05:00Z"}`, EventMessageUpdated},
		{"member_joined", `{"type":"member_joined","channel_id":4,"user":{"id":9,"username":"joe"},"channel_owner_id":1}`, EventMemberJoined},
		{"member_left", `{"type":"member_left","channel_id":4,"user_id":9,"channel_owner_id":1}`, EventMemberLeft},
		{"owner_transferred", `{"type":"owner_transferred","channel_id":4,"old_owner_id":1,"new_owner_id":9,"new_owner_username":"joe"}`, EventOwnerTransferred},
		{"presence", `{"type":"presence","channel_id":4,"online_count":3}`, EventPresence},
		{"user_presence", `{"type":"user_presence","user_id":9,"is_online":false,"last_seen":"2024-03-01T09:00:00Z"}`, EventUserPresence},
		{"invitation", `{"type":"invitation_status_changed","invitation_id":5,"status":"accepted","user_id":9,"channel_id":4}`, EventInvitationStatus},
		{"error", `{"type":"error","message":"not a member","action_required":"join_channel","channel_id":4}`, EventError},
		{"ping", `{"type":"ping"}`, EventPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.data))
			if err != nil {
				t.Fatalf("DecodeEvent: %v", err)
			}
			if ev.Kind() != tt.want {
				t.Errorf("Kind = %s, want %s", ev.Kind(), tt.want)
			}
		})
	}
}

func TestDecodeUnknownTypeFails(t *testing.T) {
	if _, err := DecodeEvent([]byte(`{"type":"mystery"}`)); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestChannelScopedEvents(t *testing.T) {
	scoped := []Event{
		NewMessageEvent{ChannelID: 7},
		MessageUpdatedEvent{ChannelID: 7},
		MessageDeletedEvent{ChannelID: 7},
		TypingEvent{ChannelID: 7},
		ReadReceiptEvent{ChannelID: 7},
		PresenceEvent{ChannelID: 7},
		MemberJoinedEvent{ChannelID: 7},
		MemberLeftEvent{ChannelID: 7},
		OwnerTransferredEvent{ChannelID: 7},
	}
	for _, ev := range scoped {
		cs, ok := ev.(ChannelScoped)
		if !ok {
			t.Errorf("%T should be channel-scoped", ev)
			continue
		}
		if cs.EventChannel() != 7 {
			t.Errorf("%T EventChannel = %d, want 7", ev, cs.EventChannel())
		}
	}

	// Reaction events target a message id, not a channel; invitation and
	// user-presence events are global broadcasts.
	global := []Event{
		ReactionAddedEvent{}, ReactionRemovedEvent{},
		UserPresenceEvent{}, InvitationStatusEvent{},
		ChannelCreatedEvent{}, ChannelDeletedEvent{},
	}
	for _, ev := range global {
		if _, ok := ev.(ChannelScoped); ok {
			t.Errorf("%T should not be channel-scoped", ev)
		}
	}
}
