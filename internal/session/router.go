package session

import (
	"context"
	"fmt"
	"time"

	"github.com/huddlechat/huddle/internal/timeline"
	"github.com/huddlechat/huddle/internal/types"
)

// Dispatch folds one live-channel event into the session. Events scoped to
// a conversation other than the active one are dropped silently: the
// transport is shared and conversation switches are asynchronous, so
// without this guard messages from a previously open conversation would
// leak into the next. The switch is exhaustive over the closed event union.
func (s *Session) Dispatch(ev types.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scoped, ok := ev.(types.ChannelScoped); ok && scoped.EventChannel() != s.activeID {
		return
	}

	switch ev := ev.(type) {
	case types.NewMessageEvent:
		s.handleNewMessage(ev)
	case types.MessageUpdatedEvent:
		s.timeline.ApplyPatch(ev.ID, timeline.Patch{
			Content:   &ev.Content,
			UpdatedAt: updatedAt(ev.UpdatedAt),
		})
	case types.MessageDeletedEvent:
		s.removeMessage(ev.MessageID)
	case types.ReactionAddedEvent:
		// Duplicate delivery and the echo of our own toggle are absorbed
		// by the pair check inside the store.
		s.timeline.AddReaction(ev.MessageID, ev.Reaction)
	case types.ReactionRemovedEvent:
		s.timeline.RemoveReaction(ev.MessageID, ev.UserID, ev.Emoji)
	case types.TypingEvent:
		if ev.UserID == s.self.ID {
			return
		}
		name := ev.Username
		if ev.FullName != nil && *ev.FullName != "" {
			name = *ev.FullName
		}
		if ev.IsTyping {
			s.typing.Touch(ev.UserID, name, s.now())
		} else {
			s.typing.Stop(ev.UserID)
		}
	case types.ReadReceiptEvent:
		if ev.UserID == s.self.ID {
			return
		}
		// Monotonic: receipts can arrive out of order, never move back.
		if ev.LastReadID > s.othersReadID {
			s.othersReadID = ev.LastReadID
		}
	case types.PresenceEvent:
		s.onlineCount = ev.OnlineCount
		s.summaries.SetOnlineCount(ev.ChannelID, ev.OnlineCount)
	case types.UserPresenceEvent:
		s.onlineUsers[ev.UserID] = ev.IsOnline
	case types.MemberJoinedEvent:
		s.memberCount++
		s.membersStale = true
		s.ownerID = ev.ChannelOwnerID
	case types.MemberLeftEvent:
		if s.memberCount > 0 {
			s.memberCount--
		}
		s.membersStale = true
		s.ownerID = ev.ChannelOwnerID
	case types.OwnerTransferredEvent:
		s.handleOwnerTransferred(ev)
	case types.InvitationStatusEvent:
		// Authoritative broadcast: overrides any optimistic local value.
		s.invitations.Set(ev.InvitationID, ev.Status)
	case types.ChannelCreatedEvent:
		s.summaries.Set(ev.Channel)
	case types.ChannelDeletedEvent:
		s.summaries.Remove(ev.ChannelID)
		if ev.ChannelID == s.activeID {
			s.notify(Notice{Level: NoticeInfo, Text: fmt.Sprintf("%s was deleted", ev.ChannelName), ChannelID: ev.ChannelID})
		}
	case types.ErrorEvent:
		s.notify(Notice{
			Level:      NoticeError,
			Text:       ev.Message,
			PromptJoin: ev.ActionRequired == "join_channel",
			ChannelID:  ev.ChannelID,
		})
	case types.PingEvent:
		// Keepalive, nothing to do.
	}
}

func (s *Session) handleNewMessage(ev types.NewMessageEvent) {
	// Dedup by id, never by content: the same broadcast can be delivered
	// twice.
	if s.timeline.Contains(ev.ID) {
		return
	}

	msg := ev.Message()
	s.confirmPending(msg)
	s.timeline.Merge([]types.Message{msg})

	if msg.ParentID != nil {
		s.timeline.ApplyPatch(*msg.ParentID, timeline.Patch{ReplyDelta: 1})
	}

	s.summaries.PatchPreview(msg.ChannelID, types.LastMessage{
		ID:         msg.ID,
		Content:    msg.Content,
		SenderName: msg.Username,
		CreatedAt:  msg.CreatedAt,
	}, msg.UserID != s.self.ID)

	if msg.UserID != s.self.ID {
		// We are looking at the conversation, so acknowledge immediately.
		s.sendReadReceiptLocked()
	}
}

func (s *Session) handleOwnerTransferred(ev types.OwnerTransferredEvent) {
	s.ownerID = ev.NewOwnerID
	switch s.self.ID {
	case ev.NewOwnerID:
		s.notify(Notice{Level: NoticeInfo, Text: "You are now the channel owner", ChannelID: ev.ChannelID})
	case ev.OldOwnerID:
		s.notify(Notice{
			Level:     NoticeInfo,
			Text:      fmt.Sprintf("Channel ownership transferred to %s", ev.NewOwnerUsername),
			ChannelID: ev.ChannelID,
		})
	}
}

// removeMessage deletes a message and keeps the parent's reply counter in
// step. The parent decrement only happens when the message was actually
// present, so the broadcast echoing a local delete cannot double-apply.
func (s *Session) removeMessage(id int64) {
	msg, ok := s.timeline.Get(id)
	if !ok {
		return
	}
	s.timeline.Remove(id)
	if msg.ParentID != nil {
		s.timeline.ApplyPatch(*msg.ParentID, timeline.Patch{ReplyDelta: -1})
	}
}

// sendReadReceiptLocked fires the read-receipt request unless one is
// already in flight. Called with the session lock held.
func (s *Session) sendReadReceiptLocked() {
	if s.readInFlight || s.activeID == 0 {
		return
	}
	s.readInFlight = true
	channelID := s.activeID

	go func() {
		_, err := s.mutations.MarkRead(context.Background(), channelID)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.readInFlight = false
		if err != nil || s.activeID != channelID {
			return
		}
		s.summaries.ClearUnread(channelID)
	}()
}

// MarkRead sends a read receipt for the open conversation when it holds
// unread messages. Guarded against re-entrancy while one is in flight.
func (s *Session) MarkRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == 0 {
		return
	}
	if timeline.UnreadCount(s.timeline.Messages(), s.lastReadSnap, s.self.ID) == 0 {
		return
	}
	s.sendReadReceiptLocked()
}

func updatedAt(t *types.RFC3339Time) *time.Time {
	if t == nil {
		return nil
	}
	out := t.Time
	return &out
}
