// Package timeline holds the authoritative ordered message collection for
// the active conversation, plus the pure views derived from it (visual
// groups, unread boundary).
package timeline

import (
	"sort"
	"time"

	"github.com/huddlechat/huddle/internal/types"
)

// Store is the per-conversation message collection. Messages are unique by
// id and kept sorted ascending by id regardless of arrival order. All
// operations are synchronous and idempotent; callers serialize access.
type Store struct {
	channelID int64
	messages  []types.Message
	index     map[int64]int // id -> position in messages
}

// NewStore creates an empty store bound to a channel.
func NewStore(channelID int64) *Store {
	return &Store{
		channelID: channelID,
		index:     make(map[int64]int),
	}
}

// ChannelID returns the conversation the store currently belongs to.
func (s *Store) ChannelID() int64 {
	return s.channelID
}

// Reset atomically clears the store and rebinds it to a new conversation.
// Called on every conversation switch.
func (s *Store) Reset(channelID int64) {
	s.channelID = channelID
	s.messages = nil
	s.index = make(map[int64]int)
}

// Len returns the number of messages held.
func (s *Store) Len() int {
	return len(s.messages)
}

// Messages returns a copy of the ordered timeline.
func (s *Store) Messages() []types.Message {
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Get returns the message with the given id.
func (s *Store) Get(id int64) (types.Message, bool) {
	pos, ok := s.index[id]
	if !ok {
		return types.Message{}, false
	}
	return s.messages[pos], true
}

// Contains reports whether the id is already known.
func (s *Store) Contains(id int64) bool {
	_, ok := s.index[id]
	return ok
}

// Oldest returns the lowest-id message, if any.
func (s *Store) Oldest() (types.Message, bool) {
	if len(s.messages) == 0 {
		return types.Message{}, false
	}
	return s.messages[0], true
}

// Newest returns the highest-id message, if any.
func (s *Store) Newest() (types.Message, bool) {
	if len(s.messages) == 0 {
		return types.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Merge inserts or updates messages, dedupes by id and re-sorts ascending.
// Merging a page that overlaps already-known messages updates them in place
// without creating duplicates, so Merge(Merge(L,P),P) == Merge(L,P).
// Returns the number of messages that were new to the store.
func (s *Store) Merge(incoming []types.Message) int {
	added := 0
	for _, msg := range incoming {
		if pos, ok := s.index[msg.ID]; ok {
			s.messages[pos] = msg
			continue
		}
		s.messages = append(s.messages, msg)
		s.index[msg.ID] = len(s.messages) - 1
		added++
	}
	if added > 0 {
		sort.SliceStable(s.messages, func(i, j int) bool {
			return s.messages[i].ID < s.messages[j].ID
		})
		s.reindex()
	}
	return added
}

// Patch is a partial in-place message update. Nil fields are left untouched.
type Patch struct {
	Content    *string
	UpdatedAt  *time.Time
	ReplyDelta int
}

// ApplyPatch updates an existing message in place. Returns false when the
// id is unknown.
func (s *Store) ApplyPatch(id int64, patch Patch) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	msg := &s.messages[pos]
	if patch.Content != nil {
		msg.Content = *patch.Content
	}
	if patch.UpdatedAt != nil {
		msg.UpdatedAt = patch.UpdatedAt
	}
	msg.ReplyCount += patch.ReplyDelta
	if msg.ReplyCount < 0 {
		msg.ReplyCount = 0
	}
	return true
}

// Remove deletes a message. Removing an absent id is a no-op, not an error.
func (s *Store) Remove(id int64) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	s.messages = append(s.messages[:pos], s.messages[pos+1:]...)
	s.reindex()
	return true
}

// AddReaction attaches a reaction, skipping if the same (user, emoji) pair
// already exists. Duplicate broadcast delivery is absorbed here.
func (s *Store) AddReaction(id int64, reaction types.Reaction) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	msg := &s.messages[pos]
	if msg.HasReaction(reaction.UserID, reaction.Emoji) {
		return false
	}
	msg.Reactions = append(msg.Reactions, reaction)
	return true
}

// RemoveReaction detaches a (user, emoji) reaction if present.
func (s *Store) RemoveReaction(id int64, userID int64, emoji string) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	msg := &s.messages[pos]
	for i, r := range msg.Reactions {
		if r.UserID == userID && r.Emoji == emoji {
			msg.Reactions = append(msg.Reactions[:i], msg.Reactions[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) reindex() {
	s.index = make(map[int64]int, len(s.messages))
	for i, msg := range s.messages {
		s.index[msg.ID] = i
	}
}
