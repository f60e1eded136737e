package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/huddlechat/huddle/internal/timeline"
	"github.com/huddlechat/huddle/internal/types"
)

// ErrMessageTooLong rejects sends over the server cap before the round trip.
var ErrMessageTooLong = errors.New("message exceeds maximum length")

// ErrNotConnected rejects sends while the live channel is down.
var ErrNotConnected = errors.New("not connected")

// PendingExpiry bounds how long a send waits for its broadcast echo before
// it is reported as failed.
const PendingExpiry = 10 * time.Second

// PendingSend is a message handed to the live channel whose broadcast echo
// has not come back yet. LocalID only identifies the pending entry; the
// server assigns the real message id.
type PendingSend struct {
	LocalID  string
	Content  string
	ParentID *int64
	SentAt   time.Time
}

// Send hands a message to the live channel and tracks it until the
// broadcast echoes it back. The echo, not the send call, is what puts the
// message into the timeline: the server assigns the id and the echo path is
// the same dedup-guarded merge every other message takes.
func (s *Session) Send(content string, parentID, documentID *int64) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) > MaxMessageLength {
		return ErrMessageTooLong
	}

	s.mu.Lock()
	outbound := s.outbound
	if outbound == nil {
		s.mu.Unlock()
		return ErrNotConnected
	}
	s.pending = append(s.pending, PendingSend{
		LocalID:  uuid.NewString(),
		Content:  content,
		ParentID: parentID,
		SentAt:   s.now(),
	})
	s.mu.Unlock()

	if err := outbound.SendMessage(content, parentID, documentID); err != nil {
		s.mu.Lock()
		s.pending = s.pending[:len(s.pending)-1]
		s.mu.Unlock()
		return err
	}
	return nil
}

// Pending returns the sends still waiting for their echo, oldest first.
func (s *Session) Pending() []PendingSend {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PendingSend, len(s.pending))
	copy(out, s.pending)
	return out
}

// confirmPending retires the pending entry a self-authored broadcast
// confirms. Matching is by content and parent since the server id is not
// known until now; the oldest match wins so two identical sends retire in
// order. Called with the session lock held.
func (s *Session) confirmPending(msg types.Message) {
	if msg.UserID != s.self.ID {
		return
	}
	for i, p := range s.pending {
		if p.Content != msg.Content || !sameParent(p.ParentID, msg.ParentID) {
			continue
		}
		s.pending = append(s.pending[:i], s.pending[i+1:]...)
		return
	}
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ExpirePending drops pending sends older than PendingExpiry and reports
// each as a failed send. Called from the UI tick.
func (s *Session) ExpirePending() {
	s.mu.Lock()
	var expired []PendingSend
	kept := s.pending[:0]
	for _, p := range s.pending {
		if s.now().Sub(p.SentAt) >= PendingExpiry {
			expired = append(expired, p)
		} else {
			kept = append(kept, p)
		}
	}
	s.pending = kept
	s.mu.Unlock()

	for _, p := range expired {
		s.notify(Notice{Level: NoticeError, Text: fmt.Sprintf("message not delivered: %.40q", p.Content)})
	}
}

// Edit rewrites a message optimistically, then replaces the optimistic
// content with the server's authoritative copy. On failure the original
// content is restored.
func (s *Session) Edit(ctx context.Context, messageID int64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > MaxMessageLength {
		return ErrMessageTooLong
	}

	s.mu.Lock()
	before, ok := s.timeline.Get(messageID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("message %d not loaded", messageID)
	}
	s.timeline.ApplyPatch(messageID, timeline.Patch{Content: &content})
	s.mu.Unlock()

	updated, err := s.mutations.EditMessage(ctx, messageID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.timeline.ApplyPatch(messageID, timeline.Patch{Content: &before.Content, UpdatedAt: before.UpdatedAt})
		return err
	}
	s.timeline.ApplyPatch(messageID, timeline.Patch{Content: &updated.Content, UpdatedAt: updated.UpdatedAt})
	return nil
}

// Delete removes a message optimistically and restores it if the server
// refuses. The broadcast echoing a successful delete finds the message
// already gone and no-ops.
func (s *Session) Delete(ctx context.Context, messageID int64) error {
	s.mu.Lock()
	saved, ok := s.timeline.Get(messageID)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.removeMessage(messageID)
	s.mu.Unlock()

	err := s.mutations.DeleteMessage(ctx, messageID)
	if err == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == saved.ChannelID {
		s.timeline.Merge([]types.Message{saved})
		if saved.ParentID != nil {
			s.timeline.ApplyPatch(*saved.ParentID, timeline.Patch{ReplyDelta: 1})
		}
	}
	return err
}

// ToggleReaction adds the local user's reaction when absent and removes it
// when present, optimistically in both directions. The broadcast echo is
// absorbed by the store's pair check, and a failed request flips the state
// back.
func (s *Session) ToggleReaction(ctx context.Context, messageID int64, emoji string) error {
	s.mu.Lock()
	msg, ok := s.timeline.Get(messageID)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	adding := !msg.HasReaction(s.self.ID, emoji)
	reaction := types.Reaction{
		Emoji:     emoji,
		UserID:    s.self.ID,
		Username:  s.self.Username,
		AvatarURL: s.self.AvatarURL,
	}
	if adding {
		s.timeline.AddReaction(messageID, reaction)
	} else {
		s.timeline.RemoveReaction(messageID, s.self.ID, emoji)
	}
	s.mu.Unlock()

	var err error
	if adding {
		err = s.mutations.AddReaction(ctx, messageID, emoji)
	} else {
		err = s.mutations.RemoveReaction(ctx, messageID, emoji)
	}
	if err == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if adding {
		s.timeline.RemoveReaction(messageID, s.self.ID, emoji)
	} else {
		s.timeline.AddReaction(messageID, reaction)
	}
	return err
}
