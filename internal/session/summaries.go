package session

import (
	"sort"
	"sync"
	"time"

	"github.com/huddlechat/huddle/internal/types"
)

// Summaries caches conversation-list metadata across conversations. It is
// patched incrementally by live events so the list stays current without
// refetching, and replaced wholesale on each full fetch.
type Summaries struct {
	mu       sync.Mutex
	channels map[int64]types.Channel
}

// NewSummaries returns an empty summary cache.
func NewSummaries() *Summaries {
	return &Summaries{channels: make(map[int64]types.Channel)}
}

// SetAll replaces the cache with a freshly fetched list.
func (s *Summaries) SetAll(channels []types.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = make(map[int64]types.Channel, len(channels))
	for _, ch := range channels {
		s.channels[ch.ID] = ch
	}
}

// Set inserts or replaces one channel summary.
func (s *Summaries) Set(ch types.Channel) {
	if ch.ID == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[ch.ID] = ch
}

// Get returns the cached summary for a channel.
func (s *Summaries) Get(channelID int64) (types.Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[channelID]
	return ch, ok
}

// Remove drops a channel from the cache.
func (s *Summaries) Remove(channelID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, channelID)
}

// List returns the summaries ordered for display: pinned first, then by
// last activity, newest first, with the channel id as tiebreak.
func (s *Summaries) List() []types.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		li, lj := lastActivity(out[i]), lastActivity(out[j])
		if li != lj {
			return li > lj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func lastActivity(ch types.Channel) int64 {
	if ch.LastMessage == nil {
		return 0
	}
	return ch.LastMessage.ID
}

// PatchPreview updates a channel's last-message preview, bumping the unread
// counter when the message is someone else's. Unknown channels are ignored;
// the next full fetch picks them up.
func (s *Summaries) PatchPreview(channelID int64, last types.LastMessage, countUnread bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[channelID]
	if !ok {
		return
	}
	ch.LastMessage = &last
	if countUnread {
		ch.UnreadCount++
	}
	s.channels[channelID] = ch
}

// ClearUnread zeroes a channel's unread counter after a read receipt.
func (s *Summaries) ClearUnread(channelID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[channelID]
	if !ok {
		return
	}
	ch.UnreadCount = 0
	s.channels[channelID] = ch
}

// SetOnlineCount records a channel's aggregate presence count.
func (s *Summaries) SetOnlineCount(channelID int64, online int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[channelID]
	if !ok {
		return
	}
	ch.OnlineCount = online
	s.channels[channelID] = ch
}

// TotalUnread sums unread counters across all conversations, skipping ones
// muted past now. Used for the tab-title badge.
func (s *Summaries) TotalUnread(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, ch := range s.channels {
		if ch.MuteUntil != nil && ch.MuteUntil.After(now) {
			continue
		}
		total += ch.UnreadCount
	}
	return total
}
