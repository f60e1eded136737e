package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "test-token")
}

func TestMessagesRequestShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/chat/channels/42/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %s", got)
		}
		if got := r.URL.Query().Get("offset"); got != "100" {
			t.Errorf("offset = %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("auth = %s", got)
		}
		w.Write([]byte(`[
			{"id":1,"channel_id":42,"user_id":2,"username":"ann","content":"a","created_at":"2024-03-01T10:00:00Z","reply_count":0},
			{"id":2,"channel_id":42,"user_id":2,"username":"ann","content":"b","created_at":"2024-03-01T10:01:00Z","reply_count":0}
		]`))
	})

	messages, err := client.Messages(context.Background(), 42, PageSize, 100)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(messages) != 2 || messages[0].ID != 1 || messages[1].Content != "b" {
		t.Errorf("unexpected page: %+v", messages)
	}
}

func TestEditMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/chat/messages/7" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Content string `json:"content"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Content != "fixed" {
			t.Errorf("content = %q", body.Content)
		}
		w.Write([]byte(`{"id":7,"channel_id":42,"user_id":1,"username":"me","content":"fixed","created_at":"2024-03-01T10:00:00Z","updated_at":"2024-03-01T10:05:00Z","reply_count":0}`))
	})

	updated, err := client.EditMessage(context.Background(), 7, "fixed")
	if err != nil {
		t.Fatalf("EditMessage: %v", err)
	}
	if updated.UpdatedAt == nil {
		t.Error("expected authoritative updated_at")
	}
}

func TestReactionQueryEscaping(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"status":"success"}`))
	})

	if err := client.AddReaction(context.Background(), 7, "👍"); err != nil {
		t.Fatalf("AddReaction: %v", err)
	}
	if gotQuery != "emoji=%F0%9F%91%8D" {
		t.Errorf("query = %s", gotQuery)
	}
}

func TestMarkRead(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/channels/42/read" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"status":"success","last_read_message_id":120}`))
	})

	lastRead, err := client.MarkRead(context.Background(), 42)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if lastRead != 120 {
		t.Errorf("last read = %d, want 120", lastRead)
	}
}

func TestServerErrorDetailSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"not a member"}`))
	})

	err := client.DeleteMessage(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Detail != "not a member" {
		t.Errorf("error = %+v", apiErr)
	}
}

func TestDeleteNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := client.DeleteMessage(context.Background(), 7); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
}

func TestAcceptInvitation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/invitations/accept" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body struct {
			InvitationID int64 `json:"invitation_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.InvitationID != 5 {
			t.Errorf("invitation_id = %d", body.InvitationID)
		}
		w.Write([]byte(`{"id":42,"name":"general","created_by":1,"is_member":true}`))
	})

	channel, err := client.AcceptInvitation(context.Background(), 5)
	if err != nil {
		t.Fatalf("AcceptInvitation: %v", err)
	}
	if channel.ID != 42 || !channel.IsMember {
		t.Errorf("channel = %+v", channel)
	}
}

func TestSearchQueryEscaped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "hello world" {
			t.Errorf("q = %q", got)
		}
		w.Write([]byte(`[]`))
	})

	if _, err := client.Search(context.Background(), "hello world", 20); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestCreateDirect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/direct/9" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id":77,"name":"","is_direct":true,"display_name":"ann","created_by":1,"is_member":true}`))
	})

	channel, err := client.CreateDirect(context.Background(), 9)
	if err != nil {
		t.Fatalf("CreateDirect: %v", err)
	}
	if !channel.IsDirect || channel.Title() != "ann" {
		t.Errorf("channel = %+v", channel)
	}
}

func TestChannelList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"general","created_by":1,"unread_count":3,"last_read_message_id":100}]`))
	})

	channels, err := client.Channels(context.Background())
	if err != nil {
		t.Fatalf("Channels: %v", err)
	}
	if len(channels) != 1 || channels[0].UnreadCount != 3 {
		t.Errorf("channels = %+v", channels)
	}
	if channels[0].LastReadMessageID == nil || *channels[0].LastReadMessageID != 100 {
		t.Errorf("last read = %v", channels[0].LastReadMessageID)
	}
}
