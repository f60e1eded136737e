// Package session is the conversation synchronization engine. A Session
// owns the timeline for the active conversation and reconciles three
// writers into it: history pages (pagination), live-channel events (the
// router) and optimistic local mutations. Everything else reads snapshots.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/huddlechat/huddle/internal/timeline"
	"github.com/huddlechat/huddle/internal/types"
	"github.com/huddlechat/huddle/internal/typing"
)

// MaxMessageLength mirrors the server-side cap so oversized sends fail
// before the round trip.
const MaxMessageLength = 4000

// History is the paginated message-fetch collaborator.
type History interface {
	Messages(ctx context.Context, channelID int64, limit, offset int) ([]types.Message, error)
}

// Mutations is the request/response mutation collaborator.
type Mutations interface {
	EditMessage(ctx context.Context, messageID int64, content string) (types.Message, error)
	DeleteMessage(ctx context.Context, messageID int64) error
	AddReaction(ctx context.Context, messageID int64, emoji string) error
	RemoveReaction(ctx context.Context, messageID int64, emoji string) error
	MarkRead(ctx context.Context, channelID int64) (int64, error)
	AcceptInvitation(ctx context.Context, invitationID int64) (types.Channel, error)
	DeclineInvitation(ctx context.Context, invitationID int64, reason string) error
}

// Outbound is the live channel's send side.
type Outbound interface {
	SendMessage(content string, parentID, documentID *int64) error
	SendTyping(isTyping bool) error
}

// NoticeLevel classifies user-visible notices.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a user-visible toast. PromptJoin marks transport errors that
// carry the join-channel hint.
type Notice struct {
	Level      NoticeLevel
	Text       string
	PromptJoin bool
	ChannelID  int64
}

// Session holds all state for one open conversation plus the
// cross-conversation summary cache. The mutex serializes the three writers;
// every asynchronous result re-checks the active conversation id at the
// moment it is applied, never at the moment it was requested.
type Session struct {
	mu sync.Mutex

	self      types.User
	history   History
	mutations Mutations
	outbound  Outbound
	notify    func(Notice)
	now       func() time.Time

	timeline    *timeline.Store
	typing      *typing.Tracker
	summaries   *Summaries
	invitations *InvitationStore

	// Active conversation. activeID is the session identity cell: 0 means
	// no conversation is open.
	activeID     int64
	channel      types.Channel
	lastReadSnap int64 // snapshotted once per Open, immutable until the next Open
	othersReadID int64 // counterpart's last-read pointer, only ever raised
	memberCount  int
	onlineCount  int
	ownerID      int64
	membersStale bool
	onlineUsers  map[int64]bool

	// Pagination cursor: next page index to fetch backwards.
	page       int
	exhausted  bool
	fetching   bool
	lastMerged int

	readInFlight bool

	pending []PendingSend
}

// New creates a session engine for the local user. notify may be nil.
func New(self types.User, history History, mutations Mutations, notify func(Notice)) *Session {
	if notify == nil {
		notify = func(Notice) {}
	}
	return &Session{
		self:        self,
		history:     history,
		mutations:   mutations,
		notify:      notify,
		now:         time.Now,
		timeline:    timeline.NewStore(0),
		typing:      typing.NewTracker(),
		summaries:   NewSummaries(),
		invitations: NewInvitationStore(),
		onlineUsers: make(map[int64]bool),
	}
}

// SetOutbound attaches the live channel's send side. Called after each
// (re)connect.
func (s *Session) SetOutbound(o Outbound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbound = o
}

// Open switches the active conversation. Everything scoped to the previous
// conversation is discarded: timeline, unread snapshot, typing state,
// pagination cursor and exhaustion flag, pending sends. The last-read
// snapshot is taken here, exactly once, and fixes the unread boundary for
// the whole session.
func (s *Session) Open(ch types.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeID = ch.ID
	s.channel = ch
	s.timeline.Reset(ch.ID)
	s.typing.Reset()

	s.lastReadSnap = 0
	if ch.LastReadMessageID != nil {
		s.lastReadSnap = *ch.LastReadMessageID
	}
	s.othersReadID = 0
	if ch.OthersReadID != nil {
		s.othersReadID = *ch.OthersReadID
	}
	s.memberCount = ch.MembersCount
	s.onlineCount = ch.OnlineCount
	s.ownerID = ch.CreatedBy
	s.membersStale = false

	s.page = 0
	s.exhausted = false
	s.fetching = false
	s.lastMerged = 0
	s.readInFlight = false
	s.pending = nil

	s.summaries.Set(ch)
}

// Close drops the active conversation without opening a new one.
func (s *Session) Close() {
	s.Open(types.Channel{})
}

// ActiveID returns the active conversation id, 0 when none.
func (s *Session) ActiveID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Channel returns the active conversation's metadata.
func (s *Session) Channel() types.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

// Self returns the local user.
func (s *Session) Self() types.User {
	return s.self
}

// MergeCached seeds the timeline from the local cache before the first
// fetch. Messages for other conversations are ignored.
func (s *Session) MergeCached(messages []types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := messages[:0]
	for _, m := range messages {
		if m.ChannelID == s.activeID {
			filtered = append(filtered, m)
		}
	}
	s.timeline.Merge(filtered)
}

// Messages returns the ordered timeline snapshot.
func (s *Session) Messages() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.Messages()
}

// UnreadBoundary returns the index the unread separator renders before,
// computed against the immutable per-open snapshot. -1 when everything is
// read.
func (s *Session) UnreadBoundary() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timeline.UnreadBoundary(s.timeline.Messages(), s.lastReadSnap, s.self.ID)
}

// UnreadCount counts unread messages in the open conversation.
func (s *Session) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timeline.UnreadCount(s.timeline.Messages(), s.lastReadSnap, s.self.ID)
}

// SeenByCounterpart reports whether the counterpart's read pointer covers
// the message (the double check-mark).
func (s *Session) SeenByCounterpart(messageID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return messageID <= s.othersReadID
}

// TypingNames returns who is typing right now, expired entries pruned.
func (s *Session) TypingNames() []string {
	active := s.typing.Active(s.now())
	names := make([]string, len(active))
	for i, entry := range active {
		names[i] = entry.Name
	}
	return names
}

// Counts returns the member and online counters for the header line.
func (s *Session) Counts() (members, online int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memberCount, s.onlineCount
}

// IsOwner reports whether the local user owns the active channel.
func (s *Session) IsOwner() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerID == s.self.ID
}

// MembersStale reports whether the member list cache was invalidated by a
// join/leave since the last fetch.
func (s *Session) MembersStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.membersStale
}

// MarkMembersFresh clears the member-cache invalidation flag after a
// refetch.
func (s *Session) MarkMembersFresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.membersStale = false
}

// UserOnline reports the last known per-user presence.
func (s *Session) UserOnline(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onlineUsers[userID]
}

// Summaries exposes the cross-conversation summary cache.
func (s *Session) Summaries() *Summaries {
	return s.summaries
}

// Invitations exposes the keyed invitation status store.
func (s *Session) Invitations() *InvitationStore {
	return s.invitations
}

// SendTyping forwards the local typing signal to the live channel.
func (s *Session) SendTyping(isTyping bool) error {
	s.mu.Lock()
	outbound := s.outbound
	s.mu.Unlock()
	if outbound == nil {
		return nil
	}
	return outbound.SendTyping(isTyping)
}
