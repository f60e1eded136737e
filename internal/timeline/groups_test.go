package timeline

import (
	"testing"
	"time"

	"github.com/huddlechat/huddle/internal/types"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
}

func groupMsg(id int64, userID int64, ts time.Time) types.Message {
	return types.Message{ID: id, UserID: userID, Username: "u", CreatedAt: ts}
}

func TestGroupBreaks(t *testing.T) {
	// A@0:00, A@0:02, B@0:02, A@5:10 next day -> [A,A] [B] [A]
	messages := []types.Message{
		groupMsg(1, 1, at(1, 0, 0)),
		groupMsg(2, 1, at(1, 0, 2)),
		groupMsg(3, 2, at(1, 0, 2)),
		groupMsg(4, 1, at(2, 5, 10)),
	}

	groups := GroupMessages(messages)
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if len(groups[0].Messages) != 2 || groups[0].UserID != 1 {
		t.Errorf("group 0 = %+v, want two messages by user 1", groups[0])
	}
	if len(groups[1].Messages) != 1 || groups[1].UserID != 2 {
		t.Errorf("group 1 = %+v, want one message by user 2", groups[1])
	}
	if len(groups[2].Messages) != 1 || groups[2].UserID != 1 {
		t.Errorf("group 2 = %+v, want one message by user 1", groups[2])
	}
}

func TestGroupBreaksOnGap(t *testing.T) {
	messages := []types.Message{
		groupMsg(1, 1, at(1, 10, 0)),
		groupMsg(2, 1, at(1, 10, 4)),
		groupMsg(3, 1, at(1, 10, 10)), // 6 min after previous
	}

	groups := GroupMessages(messages)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
}

func TestGroupBreaksOnDayBoundary(t *testing.T) {
	messages := []types.Message{
		groupMsg(1, 1, time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)),
		groupMsg(2, 1, time.Date(2024, 3, 2, 0, 1, 0, 0, time.UTC)),
	}

	groups := GroupMessages(messages)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2 (day boundary)", len(groups))
	}
}

func TestGroupEmptyInput(t *testing.T) {
	if groups := GroupMessages(nil); len(groups) != 0 {
		t.Errorf("groups = %d, want 0", len(groups))
	}
}
