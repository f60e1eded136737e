package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huddlechat/huddle/internal/api"
	"github.com/huddlechat/huddle/internal/types"
)

func newTestModel(t *testing.T, channel types.Channel) *Model {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","last_read_message_id":0}`))
	}))
	t.Cleanup(server.Close)

	model, err := NewModel(Options{
		API:       api.New(server.URL, "token"),
		ServerURL: server.URL,
		Token:     "token",
		Self:      types.User{ID: 1, Username: "me"},
		Channel:   channel,
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	model.viewport.Width = 80
	model.viewport.Height = 20
	model.ready = true
	return model
}

func event(id, userID int64, content string, at time.Time) types.NewMessageEvent {
	return types.NewMessageEvent{
		ID:        id,
		ChannelID: 42,
		UserID:    userID,
		Username:  "ann",
		Content:   content,
		CreatedAt: types.RFC3339Time{Time: at},
	}
}

func TestRenderMessagesGroupsConsecutiveAuthor(t *testing.T) {
	m := newTestModel(t, types.Channel{ID: 42, Name: "general"})
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	m.session.Dispatch(event(1, 2, "first", base))
	m.session.Dispatch(event(2, 2, "second", base.Add(time.Minute)))

	out := m.renderMessages()
	if got := strings.Count(out, "ann"); got != 1 {
		t.Errorf("author header rendered %d times, want 1\n%s", got, out)
	}
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("missing message bodies:\n%s", out)
	}
}

func TestRenderMessagesGroupBreaksOnGap(t *testing.T) {
	m := newTestModel(t, types.Channel{ID: 42, Name: "general"})
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	m.session.Dispatch(event(1, 2, "before", base))
	m.session.Dispatch(event(2, 2, "after", base.Add(6*time.Minute)))

	out := m.renderMessages()
	if got := strings.Count(out, "ann"); got != 2 {
		t.Errorf("author header rendered %d times, want 2\n%s", got, out)
	}
}

func TestRenderMessagesUnreadSeparator(t *testing.T) {
	lastRead := int64(1)
	m := newTestModel(t, types.Channel{ID: 42, Name: "general", LastReadMessageID: &lastRead})
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	m.session.Dispatch(event(1, 2, "read already", base))
	m.session.Dispatch(event(2, 2, "fresh", base.Add(time.Minute)))

	out := m.renderMessages()
	sepIdx := strings.Index(out, "new messages")
	if sepIdx < 0 {
		t.Fatalf("separator missing:\n%s", out)
	}
	if strings.Index(out, "fresh") < sepIdx {
		t.Errorf("separator rendered after the unread message:\n%s", out)
	}
}

func TestRenderMessagesShowsPendingSends(t *testing.T) {
	m := newTestModel(t, types.Channel{ID: 42, Name: "general"})
	m.session.SetOutbound(nullOutbound{})
	if err := m.session.Send("on its way", nil, nil); err != nil {
		t.Fatalf("Send: %v", err)
	}

	out := m.renderMessages()
	if !strings.Contains(out, "on its way") || !strings.Contains(out, "sending") {
		t.Errorf("pending send not rendered:\n%s", out)
	}
}

type nullOutbound struct{}

func (nullOutbound) SendMessage(string, *int64, *int64) error { return nil }
func (nullOutbound) SendTyping(bool) error                    { return nil }

func TestRenderReactions(t *testing.T) {
	reactions := []types.Reaction{
		{Emoji: "👍", UserID: 1, Username: "me"},
		{Emoji: "👍", UserID: 2, Username: "ann"},
		{Emoji: "❤️", UserID: 2, Username: "ann"},
	}
	if got := renderReactions(reactions); got != "👍 2 · ❤️ 1" {
		t.Errorf("renderReactions = %q", got)
	}
	if got := renderReactions(nil); got != "" {
		t.Errorf("renderReactions(nil) = %q", got)
	}
}

func TestResolveTargetDefaultsToOwnNewest(t *testing.T) {
	m := newTestModel(t, types.Channel{ID: 42, Name: "general"})
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mine := event(1, 1, "mine", base)
	mine.Username = "me"
	m.session.Dispatch(mine)
	m.session.Dispatch(event(2, 2, "theirs", base.Add(time.Minute)))

	id, ok := m.resolveTarget(nil)
	if !ok || id != 1 {
		t.Errorf("resolveTarget = %d, %v, want own message 1", id, ok)
	}

	id, ok = m.resolveTarget([]string{"2"})
	if !ok || id != 2 {
		t.Errorf("resolveTarget with arg = %d, %v", id, ok)
	}

	if _, ok := m.resolveTarget([]string{"nope"}); ok {
		t.Error("bad id should fail")
	}
}
