package session

import (
	"context"
	"testing"
	"time"

	"github.com/huddlechat/huddle/internal/types"
)

func TestUnreadBoundaryStableAcrossMergesAndLive(t *testing.T) {
	s, backend, _ := newTestSession(t)
	// Last read 100; the visible page spans 95..120.
	var page []types.Message
	for id := int64(95); id <= 120; id++ {
		page = append(page, historyMessage(id, 42, "m"))
	}
	backend.pages[0] = page
	openChannel(s, 42, 100)

	if err := s.LoadLatest(context.Background()); err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}

	boundaryID := func() int64 {
		idx := s.UnreadBoundary()
		if idx < 0 {
			t.Fatal("expected an unread boundary")
		}
		return s.Messages()[idx].ID
	}
	if got := boundaryID(); got != 101 {
		t.Fatalf("boundary before id %d, want 101", got)
	}

	// A live message arrives and older history merges beneath: the
	// separator must not move.
	s.Dispatch(newMessageEvent(121, 42, 2, "live"))
	var older []types.Message
	for id := int64(40); id <= 94; id++ {
		older = append(older, historyMessage(id, 42, "old"))
	}
	s.mu.Lock()
	s.timeline.Merge(older)
	s.mu.Unlock()

	if got := boundaryID(); got != 101 {
		t.Errorf("boundary before id %d after merges, want 101", got)
	}
	if got := s.UnreadCount(); got != 21 {
		t.Errorf("unread = %d, want 21 (101..121)", got)
	}
}

func TestUnreadSnapshotSurvivesMarkRead(t *testing.T) {
	s, backend, _ := newTestSession(t)
	backend.pages[0] = []types.Message{
		historyMessage(100, 42, "read"),
		historyMessage(101, 42, "unread"),
	}
	openChannel(s, 42, 100)
	if err := s.LoadLatest(context.Background()); err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}

	// Acknowledging the server does not move the local separator; only
	// reopening the conversation does.
	s.MarkRead()
	if got := s.UnreadBoundary(); got < 0 {
		t.Error("separator must survive the read receipt")
	}

	lastRead := int64(101)
	s.Open(types.Channel{ID: 42, LastReadMessageID: &lastRead})
	if got := s.UnreadBoundary(); got != -1 {
		t.Errorf("boundary after reopen = %d, want -1", got)
	}
}

func TestOwnMessagesNeverCountUnread(t *testing.T) {
	s, backend, _ := newTestSession(t)
	backend.pages[0] = []types.Message{
		historyMessage(100, 42, "theirs"),
		{ID: 101, ChannelID: 42, UserID: testSelf.ID, Username: "me", Content: "mine", CreatedAt: time.Now()},
	}
	openChannel(s, 42, 100)
	if err := s.LoadLatest(context.Background()); err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}

	if got := s.UnreadCount(); got != 0 {
		t.Errorf("unread = %d, own messages must not count", got)
	}
	if got := s.UnreadBoundary(); got != -1 {
		t.Errorf("boundary = %d, want -1", got)
	}
}

func TestOpenResetsConversationState(t *testing.T) {
	s, backend, _ := newTestSession(t)
	backend.pages[0] = fullPage(7, 300)
	openChannel(s, 7, 0)
	if err := s.LoadLatest(context.Background()); err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	s.Send("unconfirmed", nil, nil)
	s.Dispatch(types.TypingEvent{ChannelID: 7, UserID: 2, Username: "ann", IsTyping: true})

	openChannel(s, 42, 0)

	if got := len(s.Messages()); got != 0 {
		t.Errorf("timeline = %d messages after switch", got)
	}
	if got := len(s.Pending()); got != 0 {
		t.Errorf("pending = %d after switch", got)
	}
	if got := s.TypingNames(); len(got) != 0 {
		t.Errorf("typing = %v after switch", got)
	}
	if s.Exhausted() {
		t.Error("exhaustion flag must reset")
	}
}

func TestCounterpartPointerFromChannelMetadata(t *testing.T) {
	s, _, _ := newTestSession(t)
	othersRead := int64(80)
	s.Open(types.Channel{ID: 42, OthersReadID: &othersRead})

	if !s.SeenByCounterpart(80) || s.SeenByCounterpart(81) {
		t.Error("pointer should start at channel metadata value")
	}
}

func TestSummariesListOrder(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Summaries().SetAll([]types.Channel{
		{ID: 1, Name: "quiet"},
		{ID: 2, Name: "busy", LastMessage: &types.LastMessage{ID: 200}},
		{ID: 3, Name: "pinned", IsPinned: true},
	})

	list := s.Summaries().List()
	if len(list) != 3 || list[0].ID != 3 || list[1].ID != 2 || list[2].ID != 1 {
		ids := make([]int64, len(list))
		for i, ch := range list {
			ids[i] = ch.ID
		}
		t.Errorf("order = %v, want [3 2 1]", ids)
	}
}

func TestSummariesUnreadLifecycle(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Summaries().SetAll([]types.Channel{{ID: 7, Name: "other"}})
	openChannel(s, 42, 0)

	// A message for a background conversation bumps its badge without
	// touching the open timeline.
	s.Summaries().PatchPreview(7, types.LastMessage{ID: 5, Content: "hi", SenderName: "ann"}, true)
	ch, _ := s.Summaries().Get(7)
	if ch.UnreadCount != 1 || ch.LastMessage == nil {
		t.Errorf("summary = %+v", ch)
	}

	s.Summaries().ClearUnread(7)
	ch, _ = s.Summaries().Get(7)
	if ch.UnreadCount != 0 {
		t.Errorf("unread = %d after clear", ch.UnreadCount)
	}
}

func TestTotalUnreadSkipsMuted(t *testing.T) {
	s, _, _ := newTestSession(t)
	muted := time.Now().Add(time.Hour)
	expired := time.Now().Add(-time.Hour)
	s.Summaries().SetAll([]types.Channel{
		{ID: 1, UnreadCount: 2},
		{ID: 2, UnreadCount: 5, MuteUntil: &muted},
		{ID: 3, UnreadCount: 1, MuteUntil: &expired},
	})

	if got := s.Summaries().TotalUnread(time.Now()); got != 3 {
		t.Errorf("total unread = %d, want 3", got)
	}
}
